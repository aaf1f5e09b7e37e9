package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputModal edits a single line of text. Enter submits, esc cancels.
type InputModal struct {
	id     string
	title  string
	hint   string
	input  textinput.Model
	submit func(value string) tea.Msg
	styles *Styles
}

// NewInputModal creates a focused text input prefilled with value.
func NewInputModal(id, title, hint, value string, charLimit int, submit func(string) tea.Msg, styles *Styles) *InputModal {
	input := textinput.New()
	input.Placeholder = hint
	input.CharLimit = charLimit
	input.SetValue(value)
	input.CursorEnd()
	input.Focus()

	return &InputModal{
		id:     id,
		title:  title,
		hint:   hint,
		input:  input,
		submit: submit,
		styles: styles,
	}
}

func (i *InputModal) ID() string { return i.id }

// Value returns the current text.
func (i *InputModal) Value() string { return i.input.Value() }

func (i *InputModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			value := i.input.Value()
			submit := i.submit
			return true, func() tea.Msg { return submit(value) }
		case tea.KeyEsc, tea.KeyCtrlC:
			return true, nil
		}
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return false, cmd
}

func (i *InputModal) View(width, height int) string {
	i.input.Width = min(max(width-16, 10), 60)
	content := lipgloss.JoinVertical(lipgloss.Left,
		i.styles.ModalTitle.Render(i.title),
		"",
		i.input.View(),
		"",
		i.styles.ModalHint.Render(i.hint+" | enter: apply | esc: cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, i.styles.ModalBorder.Render(content))
}
