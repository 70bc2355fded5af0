package core

import "fmt"

// Scroller is the scrollable surface a transcript renders into.
// Metrics are in rows: offset is the first visible row, visible the
// viewport height and total the content height. firstUnread is the ID of
// the oldest entry appended while scrolled away, "" when nothing is unread.
type Scroller interface {
	Metrics() (offset, visible, total int)
	Render(entries []Message, firstUnread string)
	ScrollToBottom()
}

// Transcript is the append-only list of entries plus the unread counter.
// It is owned by a single goroutine (the UI loop) and is not safe for
// concurrent use.
type Transcript struct {
	view      Scroller
	threshold int
	entries   []Message
	unread    int

	firstUnread string // ID of the oldest unread entry
}

// NewTranscript binds a transcript to its scroller. threshold is how many
// rows from the bottom still count as following the conversation.
func NewTranscript(view Scroller, threshold int) *Transcript {
	if threshold < 0 {
		threshold = 0
	}
	return &Transcript{
		view:      view,
		threshold: threshold,
	}
}

// Append renders msg at the end of the transcript. If the viewport was at
// the bottom before the append it follows the new entry, otherwise the
// unread counter grows. Returns true when the view followed.
func (t *Transcript) Append(msg Message) bool {
	atBottom := t.AtBottom()

	t.entries = append(t.entries, msg)
	if !atBottom && t.unread == 0 {
		t.firstUnread = msg.ID
	}
	t.view.Render(t.entries, t.firstUnread)

	if atBottom {
		t.view.ScrollToBottom()
		return true
	}
	t.unread++
	return false
}

// JumpToBottom scrolls to the newest entry, clears the unread counter and
// removes the unread divider.
func (t *Transcript) JumpToBottom() {
	if t.firstUnread != "" {
		t.firstUnread = ""
		t.view.Render(t.entries, "")
	}
	t.view.ScrollToBottom()
	t.unread = 0
}

// Settle clears the unread counter when the user has scrolled down to the
// bottom by hand. Returns true if anything was cleared.
func (t *Transcript) Settle() bool {
	if t.unread == 0 || !t.AtBottom() {
		return false
	}
	t.JumpToBottom()
	return true
}

// Refresh re-renders every entry, e.g. after a resize or theme change,
// keeping the view pinned to the bottom if it was there.
func (t *Transcript) Refresh() {
	atBottom := t.AtBottom()
	t.view.Render(t.entries, t.firstUnread)
	if atBottom {
		t.view.ScrollToBottom()
	}
}

// AtBottom reports whether the viewport is within the threshold of the bottom.
func (t *Transcript) AtBottom() bool {
	offset, visible, total := t.view.Metrics()
	return offset+visible >= total-t.threshold
}

// Unread returns the number of entries appended while scrolled away.
func (t *Transcript) Unread() int {
	return t.unread
}

// Indicator returns the unread indicator text, or "" when it is hidden.
func (t *Transcript) Indicator() string {
	if t.unread == 0 {
		return ""
	}
	return IndicatorText(t.unread)
}

// FirstUnread returns the ID of the oldest entry appended while scrolled
// away, or "" when nothing is unread.
func (t *Transcript) FirstUnread() string {
	return t.firstUnread
}

// Entries returns the rendered entries in order. Callers must not modify it.
func (t *Transcript) Entries() []Message {
	return t.entries
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// IndicatorText formats the unread indicator for n new entries.
func IndicatorText(n int) string {
	suffix := ""
	if n > 1 {
		suffix = "s"
	}
	return fmt.Sprintf("%d new message%s • click to jump", n, suffix)
}
