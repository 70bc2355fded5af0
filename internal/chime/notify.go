package chime

import (
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

const notifyBodyMax = 100

// Notifier raises a desktop notification.
type Notifier interface {
	Notify(title, body string)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// Desktop sends notifications through the OS notification service.
type Desktop struct {
	send func(title, message string, icon any) error
}

// NewDesktop returns a notifier backed by beeep.
func NewDesktop() *Desktop {
	return &Desktop{send: beeep.Notify}
}

// Notify sends in the background. Errors are logged and dropped.
func (d *Desktop) Notify(title, body string) {
	body = truncateNotification(body, notifyBodyMax)
	go func() {
		if err := d.send(title, body, ""); err != nil {
			log.Debug().Err(err).Str("title", title).Msg("desktop notification failed")
		}
	}()
}

func truncateNotification(s string, maxLen int) string {
	// Collapse whitespace for notification
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
