package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xonecas/minichat/internal/constants"
)

// InputMode represents what the text input is collecting.
type InputMode int

const (
	InputModeCompose InputMode = iota
	InputModeName
)

const maxHistorySize = 100

// InputModel wraps a single-line text input. The composer keeps a history
// of sent messages browsable with up/down.
type InputModel struct {
	textInput    textinput.Model
	mode         InputMode
	history      []string // Previous messages
	historyIndex int      // Current position in history (-1 = not browsing)
	draft        string   // Saved draft when browsing history
}

// NewInputModel creates an input for mode.
func NewInputModel(mode InputMode) InputModel {
	ti := textinput.New()
	switch mode {
	case InputModeName:
		ti.Placeholder = "Your name (leave blank for a random one)"
		ti.CharLimit = constants.MaxNameLength
		ti.Prompt = ""
	default:
		ti.Placeholder = "Message"
		ti.CharLimit = constants.ComposerCharLimit
		ti.Prompt = "› "
	}
	ti.Width = 60

	return InputModel{
		textInput:    ti,
		mode:         mode,
		history:      make([]string, 0, maxHistorySize),
		historyIndex: -1,
	}
}

// Mode returns the input mode.
func (m InputModel) Mode() InputMode {
	return m.mode
}

// Value returns the current input value.
func (m InputModel) Value() string {
	return m.textInput.Value()
}

// SetValue replaces the input value and moves the cursor to the end.
func (m *InputModel) SetValue(s string) {
	m.textInput.SetValue(s)
	m.textInput.CursorEnd()
}

// Focused reports whether the input receives keys.
func (m InputModel) Focused() bool {
	return m.textInput.Focused()
}

// Focus gives the input the cursor and returns the blink command.
func (m *InputModel) Focus() tea.Cmd {
	return m.textInput.Focus()
}

// Blur removes the cursor.
func (m *InputModel) Blur() {
	m.textInput.Blur()
}

// SetPromptStyle applies the theme to the prompt.
func (m *InputModel) SetPromptStyle(s *Styles) {
	m.textInput.PromptStyle = s.inputPrompt
	m.textInput.PlaceholderStyle = s.muted
}

// History key bindings
var historyKeys = struct {
	Up   key.Binding
	Down key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up")),
	Down: key.NewBinding(key.WithKeys("down")),
}

// Update handles input updates.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.mode == InputModeCompose {
		switch {
		case key.Matches(keyMsg, historyKeys.Up):
			m.navigateHistory(1)
			return m, nil
		case key.Matches(keyMsg, historyKeys.Down):
			m.navigateHistory(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// navigateHistory moves through the history.
// direction: 1 = older (up), -1 = newer (down)
func (m *InputModel) navigateHistory(direction int) {
	if len(m.history) == 0 {
		return
	}

	// Save current input as draft when starting to browse
	if m.historyIndex == -1 && direction == 1 {
		m.draft = m.textInput.Value()
	}

	newIndex := m.historyIndex + direction
	if newIndex < -1 {
		newIndex = -1
	}
	if newIndex >= len(m.history) {
		newIndex = len(m.history) - 1
	}
	m.historyIndex = newIndex

	if m.historyIndex == -1 {
		m.SetValue(m.draft)
		return
	}
	// Most recent is at the end of the slice
	m.SetValue(m.history[len(m.history)-1-m.historyIndex])
}

// AppendEmoji adds emoji to the value, separated by a space when the
// input already has text.
func (m *InputModel) AppendEmoji(emoji string) {
	value := m.textInput.Value()
	if value != "" {
		value += " "
	}
	m.SetValue(value + emoji)
}

// View renders the input inside its frame.
func (m InputModel) View(width int, s *Styles) string {
	frame := s.inputIdle
	if m.textInput.Focused() {
		frame = s.input
	}
	return frame.Width(width - 2).Render(m.textInput.View())
}

// Reset clears the value and history browsing state.
func (m *InputModel) Reset() {
	m.textInput.Reset()
	m.historyIndex = -1
	m.draft = ""
}

// AddToHistory adds a message to the history.
func (m *InputModel) AddToHistory(message string) {
	if message == "" {
		return
	}

	// Avoid duplicate consecutive entries
	if len(m.history) > 0 && m.history[len(m.history)-1] == message {
		return
	}

	m.history = append(m.history, message)
	if len(m.history) > maxHistorySize {
		m.history = m.history[len(m.history)-maxHistorySize:]
	}
}

// SetWidth sets the input width.
func (m *InputModel) SetWidth(width int) {
	m.textInput.Width = width - 4 // Account for padding/border
}
