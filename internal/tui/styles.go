package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/minichat/internal/store"
)

// palette is the colour set for one theme.
type palette struct {
	accent    lipgloss.Color // Sent bubbles, prompt, indicator
	accentDim lipgloss.Color
	text      lipgloss.Color
	onAccent  lipgloss.Color // Text drawn on accent backgrounds
	peer      lipgloss.Color // Received sender names
	muted     lipgloss.Color // Timestamps, system notes
	border    lipgloss.Color
	panel     lipgloss.Color // Modal and help background
	success   lipgloss.Color
	errorFg   lipgloss.Color
}

var lightPalette = palette{
	accent:    lipgloss.Color("#0A84FF"),
	accentDim: lipgloss.Color("#7CB8FF"),
	text:      lipgloss.Color("#1C1C1E"),
	onAccent:  lipgloss.Color("#FFFFFF"),
	peer:      lipgloss.Color("#5E5CE6"),
	muted:     lipgloss.Color("#8E8E93"),
	border:    lipgloss.Color("#C7C7CC"),
	panel:     lipgloss.Color("#F2F2F7"),
	success:   lipgloss.Color("#248A3D"),
	errorFg:   lipgloss.Color("#D70015"),
}

var darkPalette = palette{
	accent:    lipgloss.Color("#0A84FF"),
	accentDim: lipgloss.Color("#0B4F99"),
	text:      lipgloss.Color("#F2F2F7"),
	onAccent:  lipgloss.Color("#FFFFFF"),
	peer:      lipgloss.Color("#BF5AF2"),
	muted:     lipgloss.Color("#98989D"),
	border:    lipgloss.Color("#3A3A3C"),
	panel:     lipgloss.Color("#1C1C1E"),
	success:   lipgloss.Color("#30D158"),
	errorFg:   lipgloss.Color("#FF453A"),
}

// Styles holds every style the UI draws with. It is rebuilt on theme change.
type Styles struct {
	theme string

	header     lipgloss.Style
	title      lipgloss.Style
	headerMeta lipgloss.Style

	transcript lipgloss.Style
	sentBody   lipgloss.Style
	recvBody   lipgloss.Style
	sender     lipgloss.Style
	self       lipgloss.Style
	avatar     lipgloss.Style
	selfAvatar lipgloss.Style
	meta       lipgloss.Style
	system     lipgloss.Style

	indicator lipgloss.Style

	input       lipgloss.Style
	inputIdle   lipgloss.Style
	inputPrompt lipgloss.Style

	status lipgloss.Style
	muted  lipgloss.Style
	errorS lipgloss.Style
	live   lipgloss.Style
	spin   lipgloss.Style

	modal      lipgloss.Style
	modalTitle lipgloss.Style

	help     lipgloss.Style
	helpKey  lipgloss.Style
	helpDesc lipgloss.Style

	scrollTrack lipgloss.Style
	scrollThumb lipgloss.Style
}

// NewStyles builds the styles for theme. Unknown themes render light.
func NewStyles(theme string) *Styles {
	theme = store.NormalizeTheme(theme)
	p := lightPalette
	if theme == store.ThemeDark {
		p = darkPalette
	}

	return &Styles{
		theme: theme,

		header: lipgloss.NewStyle().
			Foreground(p.text).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),
		headerMeta: lipgloss.NewStyle().
			Foreground(p.muted),

		transcript: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border),
		sentBody: lipgloss.NewStyle().
			Foreground(p.onAccent).
			Background(p.accent).
			Padding(0, 1),
		recvBody: lipgloss.NewStyle().
			Foreground(p.text).
			Background(p.panel).
			Padding(0, 1),
		sender: lipgloss.NewStyle().
			Foreground(p.peer).
			Bold(true),
		self: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		avatar: lipgloss.NewStyle().
			Foreground(p.onAccent).
			Background(p.peer).
			Bold(true),
		selfAvatar: lipgloss.NewStyle().
			Foreground(p.onAccent).
			Background(p.accent).
			Bold(true),
		meta: lipgloss.NewStyle().
			Foreground(p.muted),
		system: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		indicator: lipgloss.NewStyle().
			Foreground(p.onAccent).
			Background(p.accent).
			Bold(true).
			Padding(0, 2),

		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		inputIdle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		inputPrompt: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		status: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		muted: lipgloss.NewStyle().
			Foreground(p.muted),
		errorS: lipgloss.NewStyle().
			Foreground(p.errorFg).
			Bold(true),
		live: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		spin: lipgloss.NewStyle().
			Foreground(p.accent),

		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Background(p.panel).
			Padding(1, 3),
		modalTitle: lipgloss.NewStyle().
			Foreground(p.text).
			Background(p.panel).
			Bold(true),

		help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Background(p.panel).
			Padding(1, 2),
		helpKey: lipgloss.NewStyle().
			Foreground(p.accent).
			Background(p.panel).
			Bold(true),
		helpDesc: lipgloss.NewStyle().
			Foreground(p.muted).
			Background(p.panel),

		scrollTrack: lipgloss.NewStyle().Foreground(p.border),
		scrollThumb: lipgloss.NewStyle().Foreground(p.accentDim),
	}
}

// Theme returns the theme the styles were built for.
func (s *Styles) Theme() string {
	return s.theme
}

// ThemeIcon is the header toggle glyph: the icon of the theme you would switch to.
func ThemeIcon(theme string) string {
	if theme == store.ThemeDark {
		return "☀️"
	}
	return "🌙"
}

// truncateToWidth truncates a string to fit within maxWidth display columns.
// Uses rune-aware iteration to avoid cutting multi-byte characters.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	currentWidth := 0
	for i, r := range s {
		charWidth := lipgloss.Width(string(r))
		if currentWidth+charWidth > maxWidth {
			return s[:i]
		}
		currentWidth += charWidth
	}
	return s
}

func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return truncateToWidth(s, maxWidth)
	}
	return truncateToWidth(s, maxWidth-1) + "…"
}

// joinEnds lays left and right out on one line of width columns.
func joinEnds(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
