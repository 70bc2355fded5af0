package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/xonecas/minichat/internal/constants"
)

// uptimeTickMsg refreshes the uptime shown in the status line.
type uptimeTickMsg time.Time

func uptimeTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return uptimeTickMsg(t)
	})
}

func newTypingSpinner(s *Styles) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Ellipsis),
		spinner.WithStyle(s.spin),
	)
}

// formatUptime renders how long the session has been open.
func formatUptime(start, now time.Time) string {
	if now.Sub(start) < time.Second {
		return "up just now"
	}
	return "up " + strings.TrimSpace(humanize.RelTime(start, now, "", ""))
}

// formatMessageCount renders the transcript size.
func formatMessageCount(n int) string {
	if n == 1 {
		return "1 message"
	}
	return humanize.Comma(int64(n)) + " messages"
}

// typingText names who is composing a reply.
func typingText(pending int) string {
	if pending == 1 {
		return "someone is typing"
	}
	return "several people are typing"
}

// renderStatus draws the footer: status line, counts, and either the typing
// indicator or the last error.
func (m Model) renderStatus() string {
	s := m.styles
	left := s.muted.Render(constants.StatusLine)

	var right []string
	if m.err != nil {
		right = append(right, s.errorS.Render("Error: "+m.err.Error()))
	} else if m.pending > 0 {
		right = append(right, s.spin.Render(typingText(m.pending))+m.spinner.View())
	}
	right = append(right, s.muted.Render(formatMessageCount(m.transcript.Len())))
	right = append(right, s.muted.Render(formatUptime(m.startedAt, m.now())))

	line := joinEnds(left, strings.Join(right, s.muted.Render(" • ")), m.width-2)
	return s.status.Render(line)
}
