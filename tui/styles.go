package tui

import "github.com/charmbracelet/lipgloss"

// palette is one colour scheme; the dashboard's dark mode picks between two.
type palette struct {
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Border   lipgloss.Color
	Error    lipgloss.Color
	Selected lipgloss.Color
	Blue     lipgloss.Color
	Green    lipgloss.Color
	Purple   lipgloss.Color
}

var (
	darkPalette = palette{
		Text:     lipgloss.Color("#F9FAFB"),
		Muted:    lipgloss.Color("#9CA3AF"),
		Accent:   lipgloss.Color("#60A5FA"),
		Border:   lipgloss.Color("#6B7280"),
		Error:    lipgloss.Color("#F87171"),
		Selected: lipgloss.Color("#374151"),
		Blue:     lipgloss.Color("#60A5FA"),
		Green:    lipgloss.Color("#10B981"),
		Purple:   lipgloss.Color("#A78BFA"),
	}
	lightPalette = palette{
		Text:     lipgloss.Color("#111827"),
		Muted:    lipgloss.Color("#6B7280"),
		Accent:   lipgloss.Color("#2563EB"),
		Border:   lipgloss.Color("#D1D5DB"),
		Error:    lipgloss.Color("#B91C1C"),
		Selected: lipgloss.Color("#E5E7EB"),
		Blue:     lipgloss.Color("#2563EB"),
		Green:    lipgloss.Color("#16A34A"),
		Purple:   lipgloss.Color("#9333EA"),
	}
)

// styles are derived from a palette on every render.
type styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Header   lipgloss.Style
	Active   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Listing  lipgloss.Style
	Card     lipgloss.Style
	Cards    [3]lipgloss.Style
	Help     lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 2).
		MarginRight(1)

	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted).Italic(true).MarginBottom(1),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
		Error:    lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Cell:     lipgloss.NewStyle().Foreground(p.Text),
		Selected: lipgloss.NewStyle().Foreground(p.Text).Background(p.Selected),
		Listing:  lipgloss.NewStyle().Foreground(p.Muted),
		Card:     card,
		Cards: [3]lipgloss.Style{
			lipgloss.NewStyle().Bold(true).Foreground(p.Blue),
			lipgloss.NewStyle().Bold(true).Foreground(p.Green),
			lipgloss.NewStyle().Bold(true).Foreground(p.Purple),
		},
		Help: lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
	}
}
