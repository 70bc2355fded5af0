package tui

import (
	"bytes"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/minichat/internal/core"
	"github.com/xonecas/minichat/internal/store"
)

// Test constants for consistent terminal dimensions
const (
	TestTerminalWidth  = 80
	TestTerminalHeight = 24
)

// ansiRegex matches ANSI escape codes
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes all ANSI escape codes from a string
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// recordingPlayer counts chimes.
type recordingPlayer struct {
	mu    sync.Mutex
	plays int
}

func (p *recordingPlayer) Play() {
	p.mu.Lock()
	p.plays++
	p.mu.Unlock()
}

func (p *recordingPlayer) Plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

// recordingNotifier keeps every notification title.
type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, _ string) {
	n.mu.Lock()
	n.titles = append(n.titles, title)
	n.mu.Unlock()
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

type testHarness struct {
	store    *store.Store
	bus      *core.EventBus
	sim      *core.Simulator
	clock    *clock.Mock
	player   *recordingPlayer
	notifier *recordingNotifier
}

// setupTestModel builds a sized model over an in-memory store. A non-empty
// storedName is saved before the model is created.
func setupTestModel(t *testing.T, storedName string) (Model, *testHarness, func()) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	if storedName != "" {
		if err := s.SetDisplayName(storedName); err != nil {
			t.Fatalf("SetDisplayName() error: %v", err)
		}
	}

	bus := core.NewEventBus(100)
	eventCh := bus.Subscribe()
	mock := clock.NewMock()
	sim := core.NewSimulator(core.DefaultSimulatorConfig(), bus,
		core.WithClock(mock),
		core.WithRand(core.NewRand(1)),
	)

	h := &testHarness{
		store:    s,
		bus:      bus,
		sim:      sim,
		clock:    mock,
		player:   &recordingPlayer{},
		notifier: &recordingNotifier{},
	}

	model := New(Options{
		Simulator:       sim,
		Store:           s,
		Events:          eventCh,
		Chime:           h.player,
		Notifier:        h.notifier,
		Rand:            core.NewRand(2),
		BottomThreshold: 2,
	})
	model.width = TestTerminalWidth
	model.height = TestTerminalHeight
	model.resize()

	fixed := testTime()
	model.testTime = &fixed

	cleanup := func() {
		sim.Stop()
		bus.Close()
		s.Close()
	}

	return model, h, cleanup
}

// testTime returns today at 12:00 local so rendered timestamps are stable.
func testTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.Local)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func pressKey(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: k})
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// nextEvent reads events from the model's subscription until one of type
// want arrives.
func nextEvent(t *testing.T, m Model, want core.EventType) EventMsg {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		ch := make(chan tea.Msg, 1)
		go func() { ch <- m.listenForEvents()() }()

		select {
		case msg := <-ch:
			if ev, ok := msg.(EventMsg); ok && ev.Event.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s event", want)
		}
	}
}

// peerMessage builds a received message event.
func peerMessage(peer, body string) EventMsg {
	msg := core.NewMessage(peer, body, core.KindReceived, testTime())
	return EventMsg{Event: core.Event{
		Type:    core.EventPeerMessage,
		Peer:    peer,
		Message: &msg,
		Chime:   true,
	}}
}

// fillTranscript appends n peer messages so the transcript overflows.
func fillTranscript(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m, _ = update(t, m, peerMessage("Noah", "Sounds good."))
	}
	return m
}

// logBuffer is a goroutine-safe sink for the global logger.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLog redirects the global logger at debug level for the test.
func captureLog(t *testing.T) *logBuffer {
	t.Helper()
	buf := &logBuffer{}
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return buf
}
