package core

import (
	"fmt"
	"testing"
	"time"
)

// fakeScroller renders every entry as a fixed number of rows.
type fakeScroller struct {
	offset        int
	height        int
	total         int
	rowsPerEntry  int
	renders       int
	scrolledToEnd int
	firstUnread   string
}

func newFakeScroller(height, rowsPerEntry int) *fakeScroller {
	return &fakeScroller{height: height, rowsPerEntry: rowsPerEntry}
}

func (f *fakeScroller) Metrics() (int, int, int) {
	return f.offset, f.height, f.total
}

func (f *fakeScroller) Render(entries []Message, firstUnread string) {
	f.total = len(entries) * f.rowsPerEntry
	f.firstUnread = firstUnread
	f.renders++
}

func (f *fakeScroller) ScrollToBottom() {
	f.offset = f.total - f.height
	if f.offset < 0 {
		f.offset = 0
	}
	f.scrolledToEnd++
}

func testMessage(i int) Message {
	return NewMessage("Olivia", fmt.Sprintf("message %d", i), KindReceived, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
}

func TestTranscriptAppendAtBottomStaysFollowing(t *testing.T) {
	view := newFakeScroller(5, 2)
	tr := NewTranscript(view, 2)

	for i := 0; i < 20; i++ {
		if followed := tr.Append(testMessage(i)); !followed {
			t.Fatalf("append %d: expected view to follow", i)
		}
		if tr.Unread() != 0 {
			t.Fatalf("append %d: expected unread=0, got %d", i, tr.Unread())
		}
		if tr.Indicator() != "" {
			t.Fatalf("append %d: expected hidden indicator, got %q", i, tr.Indicator())
		}
	}

	if tr.Len() != 20 {
		t.Errorf("expected 20 entries, got %d", tr.Len())
	}
	if view.offset != view.total-view.height {
		t.Errorf("expected view pinned to bottom, offset=%d total=%d", view.offset, view.total)
	}
}

func TestTranscriptAppendScrolledAwayCountsUnread(t *testing.T) {
	view := newFakeScroller(5, 2)
	tr := NewTranscript(view, 2)

	for i := 0; i < 10; i++ {
		tr.Append(testMessage(i))
	}

	// User scrolls to the top
	view.offset = 0

	for i := 1; i <= 4; i++ {
		if followed := tr.Append(testMessage(100 + i)); followed {
			t.Fatalf("append %d: expected view not to follow", i)
		}
		if tr.Unread() != i {
			t.Fatalf("expected unread=%d, got %d", i, tr.Unread())
		}
		if want := IndicatorText(i); tr.Indicator() != want {
			t.Fatalf("expected indicator %q, got %q", want, tr.Indicator())
		}
	}

	if view.offset != 0 {
		t.Errorf("expected offset untouched while scrolled away, got %d", view.offset)
	}
}

func TestTranscriptMarksFirstUnread(t *testing.T) {
	view := newFakeScroller(5, 2)
	tr := NewTranscript(view, 2)
	for i := 0; i < 10; i++ {
		tr.Append(testMessage(i))
	}
	if tr.FirstUnread() != "" || view.firstUnread != "" {
		t.Fatalf("expected no unread marker while following, got %q", tr.FirstUnread())
	}

	view.offset = 0
	first := testMessage(100)
	second := testMessage(101)
	tr.Append(first)
	tr.Append(second)

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty IDs, got %q and %q", first.ID, second.ID)
	}
	if tr.FirstUnread() != first.ID {
		t.Errorf("expected marker on the first unread entry %q, got %q", first.ID, tr.FirstUnread())
	}
	if view.firstUnread != first.ID {
		t.Errorf("expected scroller to receive marker %q, got %q", first.ID, view.firstUnread)
	}

	tr.JumpToBottom()
	if tr.FirstUnread() != "" {
		t.Errorf("expected marker cleared after jump, got %q", tr.FirstUnread())
	}
	if view.firstUnread != "" {
		t.Errorf("expected scroller re-rendered without marker, got %q", view.firstUnread)
	}
	if !tr.AtBottom() {
		t.Error("expected view at bottom after jump")
	}
}

func TestTranscriptMeasuresBeforeAppend(t *testing.T) {
	// Exactly at the bottom with no slack: an entry taller than the
	// threshold must still be followed.
	view := newFakeScroller(4, 10)
	tr := NewTranscript(view, 0)

	tr.Append(testMessage(0))
	if view.offset != 6 {
		t.Fatalf("expected offset=6, got %d", view.offset)
	}

	if !tr.Append(testMessage(1)) {
		t.Error("expected follow when the view was at the bottom before the append")
	}
	if tr.Unread() != 0 {
		t.Errorf("expected unread=0, got %d", tr.Unread())
	}
}

func TestTranscriptThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		offset    int
		want      bool
	}{
		// total=20, height=5: bottom offset is 15
		{"exact bottom", 2, 15, true},
		{"within threshold", 2, 13, true},
		{"just outside threshold", 2, 12, false},
		{"zero threshold exact", 0, 15, true},
		{"zero threshold one row up", 0, 14, false},
		{"top", 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newFakeScroller(5, 1)
			view.total = 20
			view.offset = tt.offset
			tr := NewTranscript(view, tt.threshold)

			if got := tr.AtBottom(); got != tt.want {
				t.Errorf("AtBottom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranscriptNegativeThresholdClamped(t *testing.T) {
	view := newFakeScroller(5, 1)
	view.total = 20
	view.offset = 15
	tr := NewTranscript(view, -3)

	if !tr.AtBottom() {
		t.Error("expected negative threshold to behave like zero")
	}
}

func TestTranscriptJumpToBottomResets(t *testing.T) {
	for _, unread := range []int{0, 1, 7} {
		t.Run(fmt.Sprintf("unread_%d", unread), func(t *testing.T) {
			view := newFakeScroller(3, 1)
			tr := NewTranscript(view, 0)
			for i := 0; i < 10; i++ {
				tr.Append(testMessage(i))
			}
			view.offset = 0
			for i := 0; i < unread; i++ {
				tr.Append(testMessage(50 + i))
			}
			if tr.Unread() != unread {
				t.Fatalf("setup: expected unread=%d, got %d", unread, tr.Unread())
			}

			tr.JumpToBottom()

			if tr.Unread() != 0 {
				t.Errorf("expected unread=0 after jump, got %d", tr.Unread())
			}
			if tr.Indicator() != "" {
				t.Errorf("expected hidden indicator after jump, got %q", tr.Indicator())
			}
			if !tr.AtBottom() {
				t.Error("expected view at bottom after jump")
			}
		})
	}
}

func TestTranscriptSettle(t *testing.T) {
	view := newFakeScroller(3, 1)
	tr := NewTranscript(view, 0)
	for i := 0; i < 10; i++ {
		tr.Append(testMessage(i))
	}
	view.offset = 0
	tr.Append(testMessage(10))
	tr.Append(testMessage(11))

	if tr.Settle() {
		t.Fatal("Settle() should not clear while scrolled away")
	}
	if tr.Unread() != 2 {
		t.Fatalf("expected unread=2, got %d", tr.Unread())
	}

	// User scrolls down by hand
	view.offset = view.total - view.height
	if !tr.Settle() {
		t.Fatal("Settle() should clear once at the bottom")
	}
	if tr.Unread() != 0 {
		t.Errorf("expected unread=0, got %d", tr.Unread())
	}
	if tr.Settle() {
		t.Error("Settle() with nothing unread should report false")
	}
}

func TestTranscriptRefreshKeepsPin(t *testing.T) {
	view := newFakeScroller(3, 1)
	tr := NewTranscript(view, 0)
	for i := 0; i < 10; i++ {
		tr.Append(testMessage(i))
	}

	// Emulate a narrower terminal that wraps every entry onto two rows
	view.rowsPerEntry = 2
	tr.Refresh()
	if view.offset != view.total-view.height {
		t.Errorf("expected pinned view after refresh, offset=%d total=%d", view.offset, view.total)
	}

	view.offset = 0
	tr.Refresh()
	if view.offset != 0 {
		t.Errorf("expected scrolled-away view untouched by refresh, got offset=%d", view.offset)
	}
}

func TestTranscriptEntriesOrdered(t *testing.T) {
	view := newFakeScroller(3, 1)
	tr := NewTranscript(view, 0)
	for i := 0; i < 5; i++ {
		tr.Append(testMessage(i))
	}

	entries := tr.Entries()
	for i, e := range entries {
		if want := fmt.Sprintf("message %d", i); e.Body != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, e.Body)
		}
	}
	if view.renders != 5 {
		t.Errorf("expected one render per append, got %d", view.renders)
	}
}

func TestIndicatorText(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1 new message • click to jump"},
		{2, "2 new messages • click to jump"},
		{12, "12 new messages • click to jump"},
	}
	for _, tt := range tests {
		if got := IndicatorText(tt.n); got != tt.want {
			t.Errorf("IndicatorText(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
