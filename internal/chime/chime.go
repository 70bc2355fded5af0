// Package chime plays the short audible cue for incoming messages.
package chime

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/minichat/internal/config"
	"github.com/xonecas/minichat/internal/constants"
)

const (
	channelCount   = 1
	bytesPerSample = 2
)

// Player plays the cue. Play must return immediately.
type Player interface {
	Play()
}

// New picks a player for the sound configuration. Audio failures are
// logged at debug level and never returned.
func New(cfg config.SoundConfig) Player {
	if !cfg.Enabled {
		return Silent{}
	}
	switch cfg.Mode {
	case config.SoundModeOff:
		return Silent{}
	case config.SoundModeBell:
		return Bell{}
	}

	return toneOrSilent(NewTone)
}

// toneOrSilent makes the cue a no-op when audio output cannot be opened.
func toneOrSilent(newTone func() (*Tone, error)) Player {
	tone, err := newTone()
	if err != nil {
		log.Debug().Err(err).Msg("audio unavailable, chime disabled")
		return Silent{}
	}
	return tone
}

// Silent never makes a sound.
type Silent struct{}

func (Silent) Play() {}

// Bell rings the system bell through beeep.
type Bell struct{}

func (Bell) Play() {
	go func() {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			log.Debug().Err(err).Msg("bell failed")
		}
	}()
}

// Tone plays a short sine through the audio device.
type Tone struct {
	ctx     *oto.Context
	pcm     []byte
	playing atomic.Bool
}

// NewTone opens the audio device and renders the cue once. Only one
// Tone may exist per process.
func NewTone() (*Tone, error) {
	op := &oto.NewContextOptions{
		SampleRate:   constants.ChimeSampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug().Int("sample_rate", constants.ChimeSampleRate).Msg("audio context initialized")
	return &Tone{
		ctx: ctx,
		pcm: synthesize(constants.ChimeFrequency, constants.ChimeGain, constants.ChimeDuration, constants.ChimeSampleRate),
	}, nil
}

// Play starts the cue in the background. A cue that is still sounding
// swallows the new one.
func (t *Tone) Play() {
	if !t.playing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer t.playing.Store(false)

		player := t.ctx.NewPlayer(bytes.NewReader(t.pcm))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Debug().Err(err).Msg("audio player close failed")
		}
	}()
}

// synthesize renders a mono signed 16-bit little-endian sine.
func synthesize(freq, gain float64, d time.Duration, sampleRate int) []byte {
	n := int(int64(d) * int64(sampleRate) / int64(time.Second))
	buf := make([]byte, n*bytesPerSample)
	for i := 0; i < n; i++ {
		v := gain * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(int16(v*math.MaxInt16)))
	}
	return buf
}
