package core

import (
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/minichat/internal/config"
	"github.com/xonecas/minichat/internal/constants"
)

// Activity is what a single simulation tick produces.
type Activity int

const (
	ActivityQuiet Activity = iota
	ActivityJoin
	ActivityLeave
	ActivityMessage
)

func (a Activity) String() string {
	switch a {
	case ActivityJoin:
		return "join"
	case ActivityLeave:
		return "leave"
	case ActivityMessage:
		return "message"
	default:
		return "quiet"
	}
}

// SimulatorConfig holds the tunables of the fake room.
type SimulatorConfig struct {
	IntervalMin   time.Duration
	IntervalMax   time.Duration
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration
	JoinBelow     float64
	LeaveBelow    float64
	MessageBelow  float64
	Peers         []string
}

// DefaultSimulatorConfig returns the stock room settings.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfigFrom(config.DefaultConfig().Simulation)
}

// SimulatorConfigFrom converts the file configuration.
func SimulatorConfigFrom(c config.SimulationConfig) SimulatorConfig {
	peers := c.Peers
	if len(peers) == 0 {
		peers = constants.SimulatedPeers
	}
	return SimulatorConfig{
		IntervalMin:   c.IntervalMin.Duration,
		IntervalMax:   c.IntervalMax.Duration,
		ReplyDelayMin: c.ReplyDelayMin.Duration,
		ReplyDelayMax: c.ReplyDelayMax.Duration,
		JoinBelow:     c.JoinBelow,
		LeaveBelow:    c.LeaveBelow,
		MessageBelow:  c.MessageBelow,
		Peers:         peers,
	}
}

// Dispatch maps a uniform draw r in [0,1) to a tick activity.
func (c SimulatorConfig) Dispatch(r float64) Activity {
	switch {
	case r < c.JoinBelow:
		return ActivityJoin
	case r < c.LeaveBelow:
		return ActivityLeave
	case r < c.MessageBelow:
		return ActivityMessage
	default:
		return ActivityQuiet
	}
}

// KeywordReply returns the canned reply for text if any keyword matches.
func KeywordReply(text string) (string, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "hi") || strings.Contains(lower, "hello"):
		return constants.ReplyGreeting, true
	case strings.Contains(lower, "how") && strings.Contains(lower, "you"):
		return constants.ReplyHowAreYou, true
	case strings.Contains(lower, "github") || strings.Contains(lower, "demo"):
		return constants.ReplyGitHub, true
	}
	return "", false
}

// SimulatorOption configures the simulator.
type SimulatorOption func(*Simulator)

// WithClock replaces the wall clock, e.g. with clock.NewMock() in tests.
func WithClock(c clock.Clock) SimulatorOption {
	return func(s *Simulator) {
		s.clock = c
	}
}

// WithRand replaces the random source.
func WithRand(r Rand) SimulatorOption {
	return func(s *Simulator) {
		s.rand = r
	}
}

// Simulator fakes the other people in the room. It publishes events on the
// bus and never touches the transcript itself.
type Simulator struct {
	mu sync.Mutex

	cfg   SimulatorConfig
	bus   *EventBus
	clock clock.Clock
	rand  Rand

	state      SimulatorState
	timer      *clock.Timer
	generation uint64 // Bumped on every start/stop so stale ticks are dropped
	pending    int    // Replies scheduled but not yet delivered
}

// NewSimulator creates an idle simulator.
func NewSimulator(cfg SimulatorConfig, bus *EventBus, opts ...SimulatorOption) *Simulator {
	if len(cfg.Peers) == 0 {
		cfg.Peers = constants.SimulatedPeers
	}
	s := &Simulator{
		cfg:   cfg,
		bus:   bus,
		clock: clock.New(),
		state: SimulatorIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = NewRand(0)
	}
	return s
}

// State returns the generator state.
func (s *Simulator) State() SimulatorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Running reports whether the activity generator is armed.
func (s *Simulator) Running() bool {
	return s.State() == SimulatorRunning
}

// PendingReplies returns how many replies are scheduled but not delivered.
func (s *Simulator) PendingReplies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Start arms the recurring activity timer. Calling it while running is a
// no-op. Returns true if the state changed.
func (s *Simulator) Start() bool {
	s.mu.Lock()
	if s.state == SimulatorRunning {
		s.mu.Unlock()
		return false
	}
	s.state = SimulatorRunning
	s.generation++
	s.armLocked(s.generation)
	s.mu.Unlock()

	log.Info().Msg("Simulated activity started")
	s.emitStateChange(SimulatorIdle, SimulatorRunning)
	return true
}

// Stop cancels the activity timer. Calling it while idle is a no-op.
// Scheduled replies are not affected. Returns true if the state changed.
func (s *Simulator) Stop() bool {
	s.mu.Lock()
	if s.state != SimulatorRunning {
		s.mu.Unlock()
		return false
	}
	s.state = SimulatorIdle
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	log.Info().Msg("Simulated activity stopped")
	s.emitStateChange(SimulatorRunning, SimulatorIdle)
	return true
}

// Toggle starts an idle simulator or stops a running one.
func (s *Simulator) Toggle() SimulatorState {
	if !s.Start() {
		s.Stop()
	}
	return s.State()
}

// SelectReply picks the reply to text: a keyword match or a random generic line.
func (s *Simulator) SelectReply(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectReplyLocked(text)
}

// PickPeer returns a random simulated peer.
func (s *Simulator) PickPeer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Pick(s.rand, s.cfg.Peers)
}

// ScheduleReply arranges for a peer to answer text after a random delay.
// The reply is always delivered; it is not tied to the generator state.
func (s *Simulator) ScheduleReply(text string) time.Duration {
	s.mu.Lock()
	delay := uniformDuration(s.rand, s.cfg.ReplyDelayMin, s.cfg.ReplyDelayMax)
	s.pending++
	pending := s.pending
	s.clock.AfterFunc(delay, func() { s.deliverReply(text) })
	now := s.clock.Now()
	s.mu.Unlock()

	log.Debug().Dur("delay", delay).Int("pending", pending).Msg("Reply scheduled")
	s.bus.Publish(Event{
		Type:      EventReplyScheduled,
		Reply:     &ReplyData{Delay: delay, Pending: pending},
		Timestamp: now,
	})
	return delay
}

func (s *Simulator) deliverReply(text string) {
	s.mu.Lock()
	reply := s.selectReplyLocked(text)
	peer := Pick(s.rand, s.cfg.Peers)
	if s.pending > 0 {
		s.pending--
	}
	now := s.clock.Now()
	s.mu.Unlock()

	msg := NewMessage(peer, reply, KindReceived, now)
	log.Debug().Str("peer", peer).Str("message_id", msg.ID).Str("reply", reply).Msg("Reply delivered")
	s.publishCritical(Event{
		Type:      EventPeerMessage,
		Peer:      peer,
		Message:   &msg,
		Chime:     true,
		Timestamp: now,
	})
}

func (s *Simulator) selectReplyLocked(text string) string {
	if reply, ok := KeywordReply(text); ok {
		return reply
	}
	return Pick(s.rand, constants.GenericReplies)
}

// armLocked schedules the next tick. Callers hold s.mu.
func (s *Simulator) armLocked(gen uint64) {
	interval := uniformDuration(s.rand, s.cfg.IntervalMin, s.cfg.IntervalMax)
	s.timer = s.clock.AfterFunc(interval, func() { s.tick(gen) })
}

func (s *Simulator) tick(gen uint64) {
	s.mu.Lock()
	if s.state != SimulatorRunning || gen != s.generation {
		s.mu.Unlock()
		return
	}

	r := s.rand.Float64()
	activity := s.cfg.Dispatch(r)
	now := s.clock.Now()

	var event *Event
	switch activity {
	case ActivityJoin:
		peer := Pick(s.rand, s.cfg.Peers)
		msg := NewSystemMessage(peer+" joined the chat", now)
		event = &Event{Type: EventPeerJoined, Peer: peer, Message: &msg, Timestamp: now}
	case ActivityLeave:
		peer := Pick(s.rand, s.cfg.Peers)
		msg := NewSystemMessage(peer+" left the chat", now)
		event = &Event{Type: EventPeerLeft, Peer: peer, Message: &msg, Timestamp: now}
	case ActivityMessage:
		peer := Pick(s.rand, s.cfg.Peers)
		msg := NewMessage(peer, Pick(s.rand, constants.ActivityMessages), KindReceived, now)
		event = &Event{Type: EventPeerMessage, Peer: peer, Message: &msg, Chime: true, Timestamp: now}
	}

	s.armLocked(gen)
	s.mu.Unlock()

	logEvent := log.Debug().Float64("r", r).Stringer("activity", activity)
	if event != nil {
		logEvent = logEvent.Str("message_id", event.Message.ID)
	}
	logEvent.Msg("Simulation tick")
	if event != nil {
		s.publishCritical(*event)
	}
}

func (s *Simulator) emitStateChange(oldState, newState SimulatorState) {
	s.publishCritical(Event{
		Type: EventSimulationStateChange,
		State: &StateChangeData{
			OldState: oldState,
			NewState: newState,
		},
		Timestamp: s.clock.Now(),
	})
}

func (s *Simulator) publishCritical(event Event) {
	if s.bus.PublishBlocking(event, constants.EventBusPublishTimeout) {
		return
	}

	log.Warn().
		Str("event_type", string(event.Type)).
		Str("peer", event.Peer).
		Msg("event bus publish timeout")
}
