package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xonecas/minichat/internal/core"
)

// LiveIndicator shows whether simulated activity is running. While live a
// dot sweeps back and forth across a short bar.
type LiveIndicator struct {
	state     core.SimulatorState
	position  int // Current position of the dot (0-width)
	direction int // 1 = right, -1 = left
	width     int // Width of the sweep area
}

// liveTickMsg is sent to animate the indicator.
type liveTickMsg time.Time

const liveTickInterval = 120 * time.Millisecond

// NewLiveIndicator creates an idle indicator.
func NewLiveIndicator() LiveIndicator {
	return LiveIndicator{
		state:     core.SimulatorIdle,
		direction: 1,
		width:     5,
	}
}

// SetState records the simulator state.
func (n *LiveIndicator) SetState(state core.SimulatorState) {
	n.state = state
}

// State returns the recorded simulator state.
func (n LiveIndicator) State() core.SimulatorState {
	return n.state
}

// Init starts the animation.
func (n LiveIndicator) Init() tea.Cmd {
	return n.tick()
}

// Update advances the animation on tick messages.
func (n LiveIndicator) Update(msg tea.Msg) (LiveIndicator, tea.Cmd) {
	if _, ok := msg.(liveTickMsg); !ok {
		return n, nil
	}
	if n.state == core.SimulatorRunning {
		n.position += n.direction
		if n.position >= n.width-1 {
			n.position = n.width - 1
			n.direction = -1
		} else if n.position <= 0 {
			n.position = 0
			n.direction = 1
		}
	}
	return n, n.tick()
}

func (n LiveIndicator) tick() tea.Cmd {
	return tea.Tick(liveTickInterval, func(t time.Time) tea.Msg {
		return liveTickMsg(t)
	})
}

// View renders the indicator.
func (n LiveIndicator) View(s *Styles) string {
	if n.state != core.SimulatorRunning {
		return s.muted.Render("◦ PAUSED")
	}

	bar := ""
	for i := 0; i < n.width; i++ {
		if i == n.position {
			bar += "●"
		} else {
			bar += "·"
		}
	}
	return s.live.Render("● LIVE") + " " + s.muted.Render(bar)
}
