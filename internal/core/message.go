package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind distinguishes who produced a transcript entry.
type MessageKind string

const (
	KindSent     MessageKind = "sent"
	KindReceived MessageKind = "received"
	KindSystem   MessageKind = "system"
)

// Message is a single transcript entry. It is never modified after it is appended.
type Message struct {
	ID        string
	Sender    string // Empty for system notes
	Body      string
	Kind      MessageKind
	Timestamp string // Display time, HH:MM local
	At        time.Time
}

// NewMessage creates a transcript entry. System entries drop the sender.
func NewMessage(sender, body string, kind MessageKind, at time.Time) Message {
	if kind == KindSystem {
		sender = ""
	}
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Body:      body,
		Kind:      kind,
		Timestamp: FormatTimestamp(at),
		At:        at,
	}
}

// NewSystemMessage creates a system note.
func NewSystemMessage(body string, at time.Time) Message {
	return NewMessage("", body, KindSystem, at)
}

// FormatTimestamp renders a time as local hours and minutes.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("15:04")
}
