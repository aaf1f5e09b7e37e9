package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal asks a yes/no question. onConfirm runs only on confirmation.
type ConfirmModal struct {
	id        string
	title     string
	body      string
	onConfirm tea.Cmd
	keys      KeyMap
	styles    *Styles
}

// NewConfirmModal creates a confirmation dialog.
func NewConfirmModal(id, title, body string, onConfirm tea.Cmd, keys KeyMap, styles *Styles) *ConfirmModal {
	return &ConfirmModal{
		id:        id,
		title:     title,
		body:      body,
		onConfirm: onConfirm,
		keys:      keys,
		styles:    styles,
	}
}

func (c *ConfirmModal) ID() string { return c.id }

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch {
	case key.Matches(km, c.keys.Confirm):
		return true, c.onConfirm
	case key.Matches(km, c.keys.Escape), key.Matches(km, c.keys.ForceQuit):
		return true, nil
	}
	switch km.String() {
	case "n", "q":
		return true, nil
	}
	return false, nil
}

func (c *ConfirmModal) View(width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		c.styles.ModalTitle.Render(c.title),
		"",
		c.styles.ModalWarn.Render(c.body),
		"",
		c.styles.ModalHint.Render("enter/y: confirm | esc/n: cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, c.styles.ModalBorder.Render(content))
}
