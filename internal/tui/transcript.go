package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/minichat/internal/core"
)

// transcriptView is the viewport the transcript renders into. It satisfies
// core.Scroller and is shared by pointer between Model copies.
type transcriptView struct {
	vp     viewport.Model
	styles *Styles
	self   string // Display name of the local user
}

func newTranscriptView(styles *Styles) *transcriptView {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &transcriptView{vp: vp, styles: styles}
}

func (v *transcriptView) Metrics() (int, int, int) {
	return v.vp.YOffset, v.vp.Height, v.vp.TotalLineCount()
}

func (v *transcriptView) Render(entries []core.Message, firstUnread string) {
	v.vp.SetContent(renderEntries(entries, firstUnread, v.vp.Width, v.styles))
}

func (v *transcriptView) ScrollToBottom() {
	v.vp.GotoBottom()
}

// SetSize resizes the viewport. Callers re-render afterwards.
func (v *transcriptView) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	v.vp.Width = width
	v.vp.Height = height
}

// Update forwards scroll keys and mouse wheel events to the viewport.
func (v *transcriptView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return cmd
}

func (v *transcriptView) View() string {
	return v.vp.View()
}

// renderEntries renders all entries separated by blank lines, with a divider
// above the entry whose ID is firstUnread.
func renderEntries(entries []core.Message, firstUnread string, width int, s *Styles) string {
	if width <= 0 {
		width = 80
	}
	blocks := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		if firstUnread != "" && e.ID == firstUnread {
			blocks = append(blocks, renderUnreadDivider(width, s))
		}
		blocks = append(blocks, renderEntry(e, width, s))
	}
	return strings.Join(blocks, "\n\n")
}

const unreadDividerLabel = " new "

func renderUnreadDivider(width int, s *Styles) string {
	rule := width - lipgloss.Width(unreadDividerLabel)
	if rule < 2 {
		return s.indicator.Render(strings.TrimSpace(unreadDividerLabel))
	}
	left := rule / 2
	line := strings.Repeat("─", left) + unreadDividerLabel + strings.Repeat("─", rule-left)
	return s.indicator.Render(line)
}

// renderEntry renders a single transcript entry. System notes are centred,
// received messages sit on the left and sent messages on the right.
func renderEntry(e core.Message, width int, s *Styles) string {
	if e.Kind == core.KindSystem {
		var lines []string
		for _, line := range wrapText(e.Body, width) {
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, s.system.Render(line)))
		}
		return strings.Join(lines, "\n")
	}

	bubbleWidth := bubbleTextWidth(width)
	bodyStyle := s.recvBody
	if e.Kind == core.KindSent {
		bodyStyle = s.sentBody
	}

	wrapped := wrapText(e.Body, bubbleWidth)
	lineWidth := 0
	for _, line := range wrapped {
		if w := lipgloss.Width(line); w > lineWidth {
			lineWidth = w
		}
	}
	var body []string
	for _, line := range wrapped {
		body = append(body, bodyStyle.Width(lineWidth+2).Render(line))
	}

	avatar := s.avatar.Render(" " + badge(e.Sender) + " ")
	name := s.sender.Render(truncateWithEllipsis(e.Sender, 20))
	if e.Kind == core.KindSent {
		avatar = s.selfAvatar.Render(" " + badge(e.Sender) + " ")
		name = s.self.Render(truncateWithEllipsis(e.Sender, 20))
	}
	meta := name + " " + s.meta.Render(e.Timestamp)

	// Avatar column is 4 cells wide plus a space
	indent := strings.Repeat(" ", 5)
	if e.Kind == core.KindSent {
		lines := make([]string, 0, len(body)+1)
		for i, line := range body {
			if i == 0 {
				lines = append(lines, line+" "+avatar)
				continue
			}
			lines = append(lines, line+indent)
		}
		lines = append(lines, meta+indent)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, strings.Join(lines, "\n"))
	}

	lines := make([]string, 0, len(body)+1)
	for i, line := range body {
		if i == 0 {
			lines = append(lines, avatar+" "+line)
			continue
		}
		lines = append(lines, indent+line)
	}
	lines = append(lines, indent+meta)
	return strings.Join(lines, "\n")
}

// badge returns the two-cell avatar text.
func badge(name string) string {
	initials := core.Initials(name)
	if initials == "" {
		initials = "?"
	}
	for lipgloss.Width(initials) < 2 {
		initials += " "
	}
	return truncateToWidth(initials, 2)
}

// bubbleTextWidth is the wrap width for message text: three quarters of
// the transcript, leaving room for the avatar column and bubble padding.
func bubbleTextWidth(width int) int {
	w := width*3/4 - 2
	if limit := width - 8; w > limit {
		w = limit
	}
	if w < 10 {
		w = 10
	}
	return w
}

// wrapText wraps text to fit within maxWidth display columns, preserving words.
// Uses lipgloss.Width() for proper Unicode character width calculation.
// Long words that exceed maxWidth are hard-wrapped to prevent overflow.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		currentLine := ""
		for _, word := range words {
			wordWidth := lipgloss.Width(word)

			if wordWidth > maxWidth {
				if currentLine != "" {
					lines = append(lines, currentLine)
					currentLine = ""
				}
				for word != "" {
					chunk := truncateToWidth(word, maxWidth)
					if chunk == "" {
						// A single rune wider than the line
						chunk = string([]rune(word)[:1])
					}
					lines = append(lines, chunk)
					word = word[len(chunk):]
				}
				continue
			}

			if currentLine == "" {
				currentLine = word
			} else if lipgloss.Width(currentLine)+1+wordWidth <= maxWidth {
				currentLine += " " + word
			} else {
				lines = append(lines, currentLine)
				currentLine = word
			}
		}
		if currentLine != "" {
			lines = append(lines, currentLine)
		}
	}

	return lines
}
