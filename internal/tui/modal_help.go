package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists every key binding in a scrollable view.
type HelpModal struct {
	keys     KeyMap
	styles   *Styles
	help     help.Model
	viewport viewport.Model
}

// NewHelpModal creates the help overlay.
func NewHelpModal(keys KeyMap, styles *Styles) *HelpModal {
	h := help.New()
	h.ShowAll = true
	return &HelpModal{
		keys:     keys,
		styles:   styles,
		help:     h,
		viewport: viewport.New(80, 20),
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			h.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			h.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			h.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			h.viewport.HalfPageDown()
			return false, nil
		case "?", "q", "esc", "ctrl+c":
			return true, nil
		}
		var cmd tea.Cmd
		h.viewport, cmd = h.viewport.Update(msg)
		return false, cmd
	}
	return false, nil
}

func (h *HelpModal) content() string {
	var b strings.Builder
	b.WriteString(h.styles.ModalBody.Render("The timer counts down from the configured duration."))
	b.WriteString("\n")
	b.WriteString(h.styles.ModalBody.Render("Presets and edits while a run is in progress ask for confirmation."))
	b.WriteString("\n")
	b.WriteString(h.styles.ModalBody.Render("Time edits read digits right to left as HH MM SS, e.g. 13000 = 1:30:00."))
	b.WriteString("\n\n")
	b.WriteString(h.help.FullHelpView(h.keys.FullHelp()))
	return b.String()
}

func (h *HelpModal) View(width, height int) string {
	modalWidth := max(width-8, 20)
	modalHeight := max(height-6, 6)
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	h.help.Width = contentWidth
	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight
	h.viewport.SetContent(h.content())

	modal := lipgloss.JoinVertical(lipgloss.Left,
		h.styles.ModalTitle.Render("Keys"),
		h.viewport.View(),
		h.styles.ModalHint.Render("up/down: Scroll | PgUp/PgDn: Page | ESC: Close"),
	)
	frame := h.styles.ModalBorder.Width(modalWidth).Height(modalHeight).Render(modal)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, frame)
}
