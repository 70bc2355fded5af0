package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpItem struct {
	key  string
	desc string
}

var helpItems = []helpItem{
	{"Enter", "Send message"},
	{"Ctrl+E", "Insert emoji"},
	{"Ctrl+T", "Toggle light / dark theme"},
	{"Ctrl+N", "Change display name"},
	{"Ctrl+P", "Pause / resume simulated activity"},
	{"Esc", "Leave composer to scroll"},
	{"/ or i", "Back to composer"},
	{"↑ / ↓", "Scroll transcript / browse sent history"},
	{"PgUp / PgDn", "Scroll page"},
	{"G / End", "Jump to newest message"},
	{"Enter / click", "Jump via new message indicator"},
	{"?", "Toggle help"},
	{"q / Ctrl+C", "Quit"},
}

// RenderHelp renders the help overlay centred in width x height.
func RenderHelp(width, height int, s *Styles) string {
	var lines []string
	lines = append(lines, s.modalTitle.Render("Keyboard shortcuts"))
	lines = append(lines, "")

	maxKeyLen := 0
	for _, item := range helpItems {
		if w := lipgloss.Width(item.key); w > maxKeyLen {
			maxKeyLen = w
		}
	}

	for _, item := range helpItems {
		key := s.helpKey.Render(padRight(item.key, maxKeyLen))
		desc := s.helpDesc.Render(item.desc)
		lines = append(lines, key+s.helpDesc.Render("  ")+desc)
	}

	box := s.help.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, length int) string {
	w := lipgloss.Width(s)
	if w >= length {
		return s
	}
	return s + strings.Repeat(" ", length-w)
}
