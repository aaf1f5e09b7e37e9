package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
	Params any
}

// ClockPage adapts a ClockModel to the Page interface.
type ClockPage struct {
	model *ClockModel
}

// NewClockPage wraps m.
func NewClockPage(m *ClockModel) *ClockPage {
	return &ClockPage{model: m}
}

func (p *ClockPage) ID() string { return "clock" }

func (p *ClockPage) Init() tea.Cmd { return p.model.Init() }

func (p *ClockPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	_, cmd := p.model.Update(msg)
	return cmd, nil
}

func (p *ClockPage) View(_, _ int) string { return p.model.View() }

// Model returns the wrapped clock model.
func (p *ClockPage) Model() *ClockModel { return p.model }
