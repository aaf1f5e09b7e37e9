package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

// StatsSnapshot is the data shown by the stats modal.
type StatsSnapshot struct {
	MotionMix   map[particles.Motion]int
	Style       particles.Style
	Active      int
	Frame       uint64
	Intensity   int
	SpawnChance float64
	Animations  bool

	State     timer.RunState
	Remaining int64
	Duration  int64
	Progress  float64

	Visitors    int64
	HasVisitors bool
}

// StatsModal charts the particle motion mix next to timer and field figures.
type StatsModal struct {
	collect func() StatsSnapshot
	snap    StatsSnapshot
	styles  *Styles
}

// NewStatsModal creates the stats overlay. collect is called on every refresh.
func NewStatsModal(collect func() StatsSnapshot, styles *Styles) *StatsModal {
	s := &StatsModal{collect: collect, styles: styles}
	s.Refresh()
	return s
}

func (s *StatsModal) ID() string { return "stats" }

// Refresh re-reads the snapshot.
func (s *StatsModal) Refresh() { s.snap = s.collect() }

// Snapshot returns the last collected data.
func (s *StatsModal) Snapshot() StatsSnapshot { return s.snap }

func (s *StatsModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "i", "q", "esc", "ctrl+c":
			return true, nil
		}
	}
	return false, nil
}

func (s *StatsModal) View(width, height int) string {
	modalWidth := max(width-8, 30)
	contentWidth := modalWidth - 4
	legendWidth := 22
	chartWidth := max(contentWidth-legendWidth-2, 12)
	chartHeight := 8
	if height < 24 {
		chartHeight = 5
	}

	pal := s.styles.Palette()
	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(pal.Accent)).
		Background(lipgloss.Color(pal.Accent))

	motions := particles.Motions()
	barWidth := max((chartWidth-len(motions)+1)/len(motions), 1)
	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	for _, m := range motions {
		bc.Push(barchart.BarData{
			Label: m.String(),
			Values: []barchart.BarValue{
				{Name: m.String(), Value: float64(s.snap.MotionMix[m]), Style: barStyle},
			},
		})
	}
	bc.Draw()

	var legend []string
	for _, m := range motions {
		legend = append(legend, fmt.Sprintf("%-13s%6d", m.String(), s.snap.MotionMix[m]))
	}
	legend = append(legend, strings.Repeat("─", legendWidth-2))
	legend = append(legend, fmt.Sprintf("%-13s%6d", "active", s.snap.Active))

	chartLines := strings.Split(bc.View(), "\n")
	rows := max(len(legend), chartHeight)
	var combined []string
	for i := 0; i < rows; i++ {
		chartLine, legendLine := "", ""
		if i < len(chartLines) {
			chartLine = chartLines[i]
		}
		if i < len(legend) {
			legendLine = legend[i]
		}
		if w := lipgloss.Width(chartLine); w < chartWidth {
			chartLine += strings.Repeat(" ", chartWidth-w)
		}
		combined = append(combined, chartLine+"  "+s.styles.ModalBody.Render(legendLine))
	}

	animation := "off"
	if s.snap.Animations {
		animation = "on"
	}
	figures := []string{
		fmt.Sprintf("Timer:      %s  %s / %s  (%.0f%%)", s.snap.State, timer.FormatRemaining(s.snap.Remaining), timer.FormatRemaining(s.snap.Duration), s.snap.Progress*100),
		fmt.Sprintf("Animation:  %s (%s)  intensity %d  spawn p=%.3f  frame %d", animation, s.snap.Style, s.snap.Intensity, s.snap.SpawnChance, s.snap.Frame),
	}
	if s.snap.HasVisitors {
		figures = append(figures, fmt.Sprintf("Visitors:   %d", s.snap.Visitors))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.styles.ModalTitle.Render("Particle motion mix"),
		strings.Join(combined, "\n"),
		"",
		s.styles.ModalBody.Render(strings.Join(figures, "\n")),
		"",
		s.styles.ModalHint.Render("i/ESC: Close"),
	)
	frame := s.styles.ModalBorder.Width(modalWidth).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, frame)
}
