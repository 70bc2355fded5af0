package chime

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xonecas/minichat/internal/config"
	"github.com/xonecas/minichat/internal/constants"
)

func TestNewSelectsPlayer(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SoundConfig
		want Player
	}{
		{"disabled", config.SoundConfig{Enabled: false, Mode: config.SoundModeTone}, Silent{}},
		{"off", config.SoundConfig{Enabled: true, Mode: config.SoundModeOff}, Silent{}},
		{"bell", config.SoundConfig{Enabled: true, Mode: config.SoundModeBell}, Bell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.cfg); got != tt.want {
				t.Errorf("expected %T, got %T", tt.want, got)
			}
		})
	}
}

func TestToneFailureIsSilent(t *testing.T) {
	got := toneOrSilent(func() (*Tone, error) {
		return nil, errors.New("no audio device")
	})
	if _, ok := got.(Silent); !ok {
		t.Errorf("expected Silent when audio init fails, got %T", got)
	}
}

func TestToneSuccessIsUsed(t *testing.T) {
	tone := &Tone{}
	got := toneOrSilent(func() (*Tone, error) { return tone, nil })
	if got != Player(tone) {
		t.Errorf("expected the tone player, got %T", got)
	}
}

func TestSynthesizeLength(t *testing.T) {
	pcm := synthesize(constants.ChimeFrequency, constants.ChimeGain, constants.ChimeDuration, constants.ChimeSampleRate)

	// 60ms at 44.1kHz mono 16-bit
	if want := 2646 * bytesPerSample; len(pcm) != want {
		t.Errorf("expected %d bytes, got %d", want, len(pcm))
	}
}

func TestSynthesizeAmplitude(t *testing.T) {
	pcm := synthesize(constants.ChimeFrequency, constants.ChimeGain, constants.ChimeDuration, constants.ChimeSampleRate)

	limit := int16(constants.ChimeGain * math.MaxInt16)
	var peak int16
	for i := 0; i < len(pcm); i += bytesPerSample {
		s := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}

	if peak > limit {
		t.Errorf("peak %d exceeds gain limit %d", peak, limit)
	}
	if peak < limit-2 {
		t.Errorf("expected peak near %d, got %d", limit, peak)
	}
	if first := int16(binary.LittleEndian.Uint16(pcm)); first != 0 {
		t.Errorf("expected sine to start at zero, got %d", first)
	}
}

func TestSynthesizeZeroDuration(t *testing.T) {
	if pcm := synthesize(440, 0.5, 0, 44100); len(pcm) != 0 {
		t.Errorf("expected empty buffer, got %d bytes", len(pcm))
	}
}

func TestSilentPlay(t *testing.T) {
	// Must not panic or block
	Silent{}.Play()
}

func TestDesktopNotify(t *testing.T) {
	var mu sync.Mutex
	var gotTitle, gotBody string
	done := make(chan struct{})

	d := &Desktop{send: func(title, message string, icon any) error {
		mu.Lock()
		gotTitle, gotBody = title, message
		mu.Unlock()
		close(done)
		return errors.New("no notification daemon")
	}}

	d.Notify("Olivia", "Nice   one!\n see you")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for notification")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotTitle != "Olivia" {
		t.Errorf("expected title Olivia, got %q", gotTitle)
	}
	if gotBody != "Nice one! see you" {
		t.Errorf("expected collapsed body, got %q", gotBody)
	}
}

func TestTruncateNotification(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := truncateNotification(long, notifyBodyMax)

	if n := len([]rune(got)); n != notifyBodyMax {
		t.Errorf("expected %d runes, got %d", notifyBodyMax, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if got := truncateNotification("short", notifyBodyMax); got != "short" {
		t.Errorf("expected short text untouched, got %q", got)
	}
}
