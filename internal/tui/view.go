package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/theme"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

// View renders the page. The topmost modal, if any, replaces the clock.
func (m *ClockModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	if top := m.TopModal(); top != nil {
		return top.View(m.width, m.height)
	}

	m.drawFace()
	parts := make([]string, 0, 3)
	if body := m.raster.Render(); body != "" {
		parts = append(parts, body)
	}
	parts = append(parts, m.renderProgress(), m.renderStatusLine())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func badgeText(s timer.RunState) string {
	switch s {
	case timer.Running:
		return "RUNNING"
	case timer.Paused:
		return "PAUSED"
	case timer.Expired:
		return "TIME'S UP"
	default:
		return "READY"
	}
}

func (m *ClockModel) digitColor(p theme.Palette) colorful.Color {
	switch m.engine.State() {
	case timer.Expired:
		return theme.Color(p.Warning)
	case timer.Paused:
		return theme.Color(p.Muted)
	default:
		return theme.Color(p.Foreground)
	}
}

// drawFace writes heading, digits and badge as raster text overlays.
func (m *ClockModel) drawFace() {
	m.raster.ClearText()
	cols, rows := m.raster.Cells()
	if cols == 0 || rows == 0 {
		return
	}

	p := m.styles.Palette()
	text := timer.FormatRemaining(m.engine.Remaining())
	state := m.engine.State()
	badgeColor := theme.Color(p.Accent)
	if state == timer.Expired {
		badgeColor = theme.Color(p.Warning)
	}

	if BigTextWidth(text) <= cols && rows >= digitRows+4 {
		top := (rows - digitRows) / 2
		m.raster.DrawTextCentered(top-2, []string{m.heading}, theme.Color(p.Foreground), true)
		m.raster.DrawTextCentered(top, BigText(text), m.digitColor(p), true)
		m.raster.DrawTextCentered(top+digitRows+1, []string{badgeText(state)}, badgeColor, true)
		return
	}

	mid := rows / 2
	m.raster.DrawTextCentered(mid-1, []string{m.heading}, theme.Color(p.Foreground), true)
	m.raster.DrawTextCentered(mid, []string{text}, m.digitColor(p), true)
	m.raster.DrawTextCentered(mid+1, []string{badgeText(state)}, badgeColor, true)
}

func (m *ClockModel) renderProgress() string {
	return " " + m.progress.ViewAs(m.engine.Progress())
}

// renderStatusLine renders the status/help line at the bottom of the screen.
func (m *ClockModel) renderStatusLine() string {
	var left []string
	if m.fullscreen {
		left = append(left, "fullscreen")
	}
	left = append(left, string(m.mode))
	if !m.animations {
		left = append(left, "still")
	} else if m.field.Style() == particles.StyleDots {
		left = append(left, "dots")
	}
	if m.hasVisitors {
		left = append(left, fmt.Sprintf("visitors %d", m.visitorCount))
	}
	leftText := m.styles.StatusBadge.Render(m.engine.State().String()) +
		m.styles.Status.Render(" "+strings.Join(left, " · ")+" ")

	right := m.renderShortHelp()
	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(leftText)
	}
	return leftText + m.styles.Status.Render(strings.Repeat(" ", gap)) + right
}

func (m *ClockModel) renderShortHelp() string {
	var b strings.Builder
	for i, kb := range m.keys.ShortHelp() {
		h := kb.Help()
		if i > 0 {
			b.WriteString(m.styles.StatusMuted.Render(" | "))
		}
		b.WriteString(m.styles.StatusKey.Render(h.Key))
		b.WriteString(m.styles.StatusMuted.Render(" " + h.Desc))
	}
	b.WriteString(m.styles.Status.Render(" "))
	return b.String()
}
