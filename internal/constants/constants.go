package constants

import "time"

// StatusLine is shown in the footer while the demo is running.
const StatusLine = "Client demo • simulated users"

// SimulatedPeers are the fixed names used for synthetic activity.
var SimulatedPeers = []string{"Olivia", "Noah", "Lucas", "Emma", "Mia", "Ethan"}

// Keyword replies, checked in order against the lowercased input.
const (
	ReplyGreeting  = "Hey there! 👋"
	ReplyHowAreYou = "Doing well — thanks!"
	ReplyGitHub    = "Works great on GitHub Pages!"
)

// GenericReplies is the fallback pool when no keyword matches.
var GenericReplies = []string{
	"Nice — love that.",
	"Totally agree.",
	"That's clever!",
	"Tell me more.",
	"Haha good one 🙂",
	"Love this demo!",
}

// ActivityMessages are posted by peers on simulation ticks.
var ActivityMessages = []string{
	"Nice one!",
	"I want to try that.",
	"Sounds good.",
	"Who else is on?",
	"Love the UI!",
}

// QuickEmoji is the pool for the composer's emoji insert.
var QuickEmoji = []string{"😊", "👍", "🎉", "😄", "💡", "🔥", "❤️"}

// NameSeeds prefix generated display names.
var NameSeeds = []string{"Avery", "Rowan", "Parker", "Quinn", "Emery", "Harper", "Sage", "Blair"}

// MaxNameLength caps display names, in runes.
const MaxNameLength = 20

// DefaultBottomThreshold is how many rows from the bottom still count as "at bottom".
const DefaultBottomThreshold = 2

// Simulated activity interval bounds, sampled uniformly per tick.
const (
	DefaultActivityIntervalMin = 4200 * time.Millisecond
	DefaultActivityIntervalMax = 7200 * time.Millisecond
)

// Delay bounds for the quick reply to a sent message.
const (
	DefaultReplyDelayMin = 700 * time.Millisecond
	DefaultReplyDelayMax = 1600 * time.Millisecond
)

// Tick dispatch bounds. A draw below JoinBelow is a join, below LeaveBelow
// a leave, below MessageBelow a peer message, anything else is quiet.
const (
	DefaultJoinBelow    = 0.12
	DefaultLeaveBelow   = 0.22
	DefaultMessageBelow = 0.72
)

// Chime tone parameters.
const (
	ChimeFrequency  = 880.0
	ChimeGain       = 0.02
	ChimeDuration   = 60 * time.Millisecond
	ChimeSampleRate = 44100
)

// MinEventBusBufferSize is the minimum buffer per subscriber channel.
const MinEventBusBufferSize = 256

// EventBusPublishTimeout is the per-subscriber timeout for blocking publishes.
const EventBusPublishTimeout = 200 * time.Millisecond

// ComposerCharLimit caps a single message.
const ComposerCharLimit = 1000
