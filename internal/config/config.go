// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xonecas/minichat/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	Transcript TranscriptConfig `toml:"transcript"`
	Simulation SimulationConfig `toml:"simulation"`
	Sound      SoundConfig      `toml:"sound"`
}

// TranscriptConfig holds transcript scrolling settings.
type TranscriptConfig struct {
	BottomThreshold int `toml:"bottom_threshold"`
}

// SimulationConfig holds simulated peer activity settings.
type SimulationConfig struct {
	IntervalMin   Duration `toml:"interval_min"`
	IntervalMax   Duration `toml:"interval_max"`
	ReplyDelayMin Duration `toml:"reply_delay_min"`
	ReplyDelayMax Duration `toml:"reply_delay_max"`
	JoinBelow     float64  `toml:"join_below"`
	LeaveBelow    float64  `toml:"leave_below"`
	MessageBelow  float64  `toml:"message_below"`
	Peers         []string `toml:"peers"`
	Seed          int64    `toml:"seed"`
}

// SoundConfig holds audible cue settings.
type SoundConfig struct {
	Enabled       bool   `toml:"enabled"`
	Mode          string `toml:"mode"`
	DesktopNotify bool   `toml:"desktop_notify"`
}

// Sound modes.
const (
	SoundModeTone = "tone"
	SoundModeBell = "bell"
	SoundModeOff  = "off"
)

// Duration wraps time.Duration so it can be written as "4.2s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	peers := make([]string, len(constants.SimulatedPeers))
	copy(peers, constants.SimulatedPeers)

	return &Config{
		Transcript: TranscriptConfig{
			BottomThreshold: constants.DefaultBottomThreshold,
		},
		Simulation: SimulationConfig{
			IntervalMin:   Duration{constants.DefaultActivityIntervalMin},
			IntervalMax:   Duration{constants.DefaultActivityIntervalMax},
			ReplyDelayMin: Duration{constants.DefaultReplyDelayMin},
			ReplyDelayMax: Duration{constants.DefaultReplyDelayMax},
			JoinBelow:     constants.DefaultJoinBelow,
			LeaveBelow:    constants.DefaultLeaveBelow,
			MessageBelow:  constants.DefaultMessageBelow,
			Peers:         peers,
		},
		Sound: SoundConfig{
			Enabled: true,
			Mode:    SoundModeTone,
		},
	}
}

// Load reads configuration from a TOML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from file if it exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and dispatch bounds.
func (c *Config) Validate() error {
	if c.Transcript.BottomThreshold < 0 {
		return fmt.Errorf("transcript.bottom_threshold must be >= 0, got %d", c.Transcript.BottomThreshold)
	}

	s := c.Simulation
	if s.IntervalMin.Duration <= 0 || s.IntervalMax.Duration < s.IntervalMin.Duration {
		return fmt.Errorf("simulation interval range [%s, %s) is invalid", s.IntervalMin, s.IntervalMax)
	}
	if s.ReplyDelayMin.Duration < 0 || s.ReplyDelayMax.Duration < s.ReplyDelayMin.Duration {
		return fmt.Errorf("simulation reply delay range [%s, %s) is invalid", s.ReplyDelayMin, s.ReplyDelayMax)
	}
	if s.JoinBelow < 0 || s.JoinBelow > s.LeaveBelow || s.LeaveBelow > s.MessageBelow || s.MessageBelow > 1 {
		return fmt.Errorf("simulation bounds must satisfy 0 <= join_below <= leave_below <= message_below <= 1")
	}
	if len(s.Peers) == 0 {
		return fmt.Errorf("simulation.peers must not be empty")
	}

	switch c.Sound.Mode {
	case SoundModeTone, SoundModeBell, SoundModeOff:
	default:
		return fmt.Errorf("sound.mode %q is not one of tone, bell, off", c.Sound.Mode)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MINICHAT_BOTTOM_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Transcript.BottomThreshold = n
		}
	}

	if v := os.Getenv("MINICHAT_INTERVAL_MIN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulation.IntervalMin.Duration = d
		}
	}

	if v := os.Getenv("MINICHAT_INTERVAL_MAX"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulation.IntervalMax.Duration = d
		}
	}

	if v := os.Getenv("MINICHAT_REPLY_DELAY_MIN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulation.ReplyDelayMin.Duration = d
		}
	}

	if v := os.Getenv("MINICHAT_REPLY_DELAY_MAX"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulation.ReplyDelayMax.Duration = d
		}
	}

	if v := os.Getenv("MINICHAT_PEERS"); v != "" {
		var peers []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				peers = append(peers, p)
			}
		}
		if len(peers) > 0 {
			cfg.Simulation.Peers = peers
		}
	}

	if v := os.Getenv("MINICHAT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = n
		}
	}

	if v := os.Getenv("MINICHAT_SOUND"); v != "" {
		switch strings.ToLower(v) {
		case "0", "false", "off":
			cfg.Sound.Enabled = false
		case SoundModeTone, SoundModeBell:
			cfg.Sound.Enabled = true
			cfg.Sound.Mode = strings.ToLower(v)
		}
	}

	if v := os.Getenv("MINICHAT_DESKTOP_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sound.DesktopNotify = b
		}
	}
}

// DataDir returns the path to the minichat data directory (~/.minichat).
// MINICHAT_DATA_DIR overrides it.
func DataDir() (string, error) {
	if v := os.Getenv("MINICHAT_DATA_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".minichat"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
