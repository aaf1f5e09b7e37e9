package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/theme"
)

// Styles are derived from the active palette and rebuilt on theme change.
type Styles struct {
	palette theme.Palette

	Status      lipgloss.Style
	StatusKey   lipgloss.Style
	StatusMuted lipgloss.Style
	StatusBadge lipgloss.Style

	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style
	ModalBody   lipgloss.Style
	ModalHint   lipgloss.Style
	ModalWarn   lipgloss.Style
}

// NewStyles builds the style set for p.
func NewStyles(p theme.Palette) Styles {
	bar := lipgloss.Color(p.Bar)
	fg := lipgloss.Color(p.Foreground)
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	warn := lipgloss.Color(p.Warning)

	return Styles{
		palette: p,

		Status:      lipgloss.NewStyle().Background(bar).Foreground(fg),
		StatusKey:   lipgloss.NewStyle().Background(bar).Foreground(accent).Bold(true),
		StatusMuted: lipgloss.NewStyle().Background(bar).Foreground(muted),
		StatusBadge: lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color(p.Background)).Bold(true).Padding(0, 1),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		ModalTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		ModalBody:  lipgloss.NewStyle().Foreground(fg),
		ModalHint:  lipgloss.NewStyle().Foreground(muted),
		ModalWarn:  lipgloss.NewStyle().Foreground(warn).Bold(true),
	}
}

// Palette returns the palette the styles were built from.
func (s Styles) Palette() theme.Palette { return s.palette }

// particlePalette maps a theme palette onto sphere colors.
func particlePalette(p theme.Palette) particles.Palette {
	return particles.Palette{
		Inner:     theme.Color(p.SphereInner),
		Outer:     theme.Color(p.SphereOuter),
		Highlight: theme.Color(p.Highlight),
	}
}
