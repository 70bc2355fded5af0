// Package core holds the chat session state: the transcript controller,
// the simulated peer activity and the event bus that connects them to the UI.
package core

import (
	"time"
)

// SimulatorState is the lifecycle state of the activity generator.
type SimulatorState string

const (
	SimulatorIdle    SimulatorState = "idle"
	SimulatorRunning SimulatorState = "running"
)

// EventType identifies the type of event.
type EventType string

const (
	EventPeerMessage           EventType = "peer_message"
	EventPeerJoined            EventType = "peer_joined"
	EventPeerLeft              EventType = "peer_left"
	EventReplyScheduled        EventType = "reply_scheduled"
	EventSimulationStateChange EventType = "simulation_state_changed"
)

// Event represents something the simulated room did.
type Event struct {
	Type      EventType
	Peer      string
	Message   *Message         // For peer messages and join/leave notes
	Chime     bool             // Play the audible cue when appended
	Reply     *ReplyData       // For reply scheduling
	State     *StateChangeData // For simulator state changes
	Timestamp time.Time
}

// ReplyData describes a scheduled reply.
type ReplyData struct {
	Delay   time.Duration
	Pending int
}

// StateChangeData contains data for state change events.
type StateChangeData struct {
	OldState SimulatorState
	NewState SimulatorState
}
