// Package tui provides the terminal user interface for minichat.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/minichat/internal/chime"
	"github.com/xonecas/minichat/internal/constants"
	"github.com/xonecas/minichat/internal/core"
	"github.com/xonecas/minichat/internal/store"
)

// Fixed layout rows around the transcript.
const (
	headerHeight    = 1
	indicatorHeight = 1
	inputHeight     = 3
	statusHeight    = 1
	minBoxHeight    = 3
)

// Options wires the model to the rest of the program.
type Options struct {
	Simulator       *core.Simulator
	Store           *store.Store
	Events          <-chan core.Event
	Chime           chime.Player   // Defaults to chime.Silent
	Notifier        chime.Notifier // Defaults to chime.NopNotifier
	Rand            core.Rand      // Name generation and emoji picks
	BottomThreshold int
	Name            string // Preset display name, skips the modal
	Theme           string // Session theme, overrides the stored one
}

// Model is the main TUI model.
type Model struct {
	sim      *core.Simulator
	store    *store.Store
	eventCh  <-chan core.Event
	chime    chime.Player
	notifier chime.Notifier
	rand     core.Rand

	styles     *Styles
	view       *transcriptView
	transcript *core.Transcript

	composer  InputModel
	nameInput InputModel
	live      LiveIndicator
	spinner   spinner.Model

	name      string
	width     int
	height    int
	showHelp  bool
	showModal bool
	spinning  bool // A spinner tick loop is in flight
	pending   int  // Replies the simulator still owes

	startedAt time.Time
	testTime  *time.Time

	err error
}

// EventMsg wraps a core event for the TUI.
type EventMsg struct {
	Event core.Event
}

// New creates the model. A display name from opts or the store skips the
// name modal and greets the returning user.
func New(opts Options) Model {
	if opts.Chime == nil {
		opts.Chime = chime.Silent{}
	}
	if opts.Notifier == nil {
		opts.Notifier = chime.NopNotifier{}
	}
	if opts.Rand == nil {
		opts.Rand = core.NewRand(0)
	}

	m := Model{
		sim:       opts.Simulator,
		store:     opts.Store,
		eventCh:   opts.Events,
		chime:     opts.Chime,
		notifier:  opts.Notifier,
		rand:      opts.Rand,
		composer:  NewInputModel(InputModeCompose),
		nameInput: NewInputModel(InputModeName),
		live:      NewLiveIndicator(),
		startedAt: time.Now(),
	}

	theme := opts.Theme
	if theme == "" {
		stored, err := opts.Store.Theme()
		if err != nil {
			m.fail("load theme", err)
		}
		theme = stored
	}
	m.styles = NewStyles(theme)
	m.view = newTranscriptView(m.styles)
	m.transcript = core.NewTranscript(m.view, opts.BottomThreshold)
	m.spinner = newTypingSpinner(m.styles)
	m.composer.SetPromptStyle(m.styles)
	m.nameInput.SetPromptStyle(m.styles)

	stored, err := opts.Store.DisplayName()
	if err != nil {
		m.fail("load display name", err)
	}

	name := stored
	if preset := core.SanitizeName(opts.Name); preset != "" {
		name = preset
		if preset != stored {
			if err := opts.Store.SetDisplayName(preset); err != nil {
				m.fail("save display name", err)
			}
		}
	}

	switch {
	case name == "":
		m.openModal("")
	case name == stored:
		m.setName(name)
		m.appendSystem(`Welcome back — you are "` + name + `"`)
		m.composer.Focus()
	default:
		m.setName(name)
		m.appendSystem(`You joined as "` + name + `"`)
		m.composer.Focus()
	}

	return m
}

// Init starts event delivery, the animations and, for a known user, the
// simulated room.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.listenForEvents(),
		m.live.Init(),
		uptimeTick(),
		textinput.Blink,
	}
	if !m.showModal {
		cmds = append(cmds, m.startSimulation())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case EventMsg:
		cmd := m.handleEvent(msg.Event)
		return m, tea.Batch(cmd, m.listenForEvents())

	case liveTickMsg:
		var cmd tea.Cmd
		m.live, cmd = m.live.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.pending == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case uptimeTickMsg:
		return m, uptimeTick()
	}

	// Cursor blink and other input internals
	var cmd tea.Cmd
	if m.showModal {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showModal {
		return m.renderModal()
	}
	if m.showHelp {
		return RenderHelp(m.width, m.height, m.styles)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTranscript(),
		m.renderIndicator(),
		m.composer.View(m.width, m.styles),
		m.renderStatus(),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showModal {
		return m.handleModalKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	m.err = nil

	switch {
	case key.Matches(msg, keys.Theme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, keys.Rename):
		m.openModal(m.name)
		return m, textinput.Blink

	case key.Matches(msg, keys.Pause):
		return m, m.toggleSimulation()

	case key.Matches(msg, keys.Emoji):
		m.composer.AppendEmoji(core.Pick(m.rand, constants.QuickEmoji))
		cmd := m.composer.Focus()
		return m, cmd
	}

	if m.composer.Focused() {
		return m.handleComposerKey(msg)
	}
	return m.handleNavigationKey(msg)
}

func (m Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.send()
		return m, nil

	case key.Matches(msg, keys.Escape):
		m.composer.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleNavigationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Compose):
		cmd := m.composer.Focus()
		return m, cmd

	case key.Matches(msg, keys.Bottom):
		m.transcript.JumpToBottom()
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.transcript.Unread() > 0 {
			m.transcript.JumpToBottom()
		}
		return m, nil
	}

	cmd := m.view.Update(msg)
	m.transcript.Settle()
	return m, cmd
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		return m.submitName()

	case key.Matches(msg, keys.Escape):
		// First run has no name to fall back to
		if m.name == "" {
			return m, nil
		}
		m.closeModal()
		cmd := m.composer.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showModal || m.showHelp {
		return m, nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if msg.Y == m.indicatorRow() && m.transcript.Unread() > 0 {
			m.transcript.JumpToBottom()
		}
		return m, nil
	}

	cmd := m.view.Update(msg)
	m.transcript.Settle()
	return m, cmd
}

func (m *Model) handleEvent(event core.Event) tea.Cmd {
	logEvent := log.Debug().
		Str("event_type", string(event.Type)).
		Time("at", event.Timestamp)
	if event.Message != nil {
		logEvent = logEvent.Str("message_id", event.Message.ID)
	}
	if event.Reply != nil {
		logEvent = logEvent.Dur("delay", event.Reply.Delay).Int("pending", event.Reply.Pending)
	}
	if event.State != nil {
		logEvent = logEvent.
			Str("from", string(event.State.OldState)).
			Str("to", string(event.State.NewState))
	}
	logEvent.Msg("Room event")

	switch event.Type {
	case core.EventPeerMessage:
		if event.Message == nil {
			return nil
		}
		followed := m.transcript.Append(*event.Message)
		if event.Chime {
			m.chime.Play()
		}
		if !followed {
			m.notifier.Notify(event.Peer, event.Message.Body)
		}
		m.pending = m.sim.PendingReplies()

	case core.EventPeerJoined, core.EventPeerLeft:
		if event.Message != nil {
			m.transcript.Append(*event.Message)
		}

	case core.EventReplyScheduled:
		m.pending = m.sim.PendingReplies()
		if m.pending > 0 && !m.spinning {
			m.spinning = true
			return m.spinner.Tick
		}

	case core.EventSimulationStateChange:
		if event.State != nil {
			m.live.SetState(event.State.NewState)
		}
	}
	return nil
}

// send appends the composer text as a sent message and asks the room for
// a reply. Blank input is dropped.
func (m *Model) send() {
	text := strings.TrimSpace(m.composer.Value())
	if text == "" {
		return
	}

	m.composer.AddToHistory(text)
	m.composer.Reset()
	m.transcript.Append(core.NewMessage(m.name, text, core.KindSent, m.now()))
	m.sim.ScheduleReply(text)
}

func (m Model) submitName() (tea.Model, tea.Cmd) {
	name := core.ResolveName(m.nameInput.Value(), m.rand)
	if err := m.store.SetDisplayName(name); err != nil {
		m.fail("save display name", err)
	}

	m.setName(name)
	m.closeModal()
	m.appendSystem(`You joined as "` + name + `"`)

	focus := m.composer.Focus()
	return m, tea.Batch(m.startSimulation(), focus)
}

func (m *Model) openModal(prefill string) {
	m.showModal = true
	m.showHelp = false
	m.composer.Blur()
	m.nameInput.Reset()
	m.nameInput.SetValue(prefill)
	m.nameInput.Focus()
}

func (m *Model) closeModal() {
	m.showModal = false
	m.nameInput.Reset()
	m.nameInput.Blur()
}

func (m *Model) setName(name string) {
	m.name = name
	m.view.self = name
}

func (m *Model) appendSystem(text string) {
	m.transcript.Append(core.NewSystemMessage(text, m.now()))
}

func (m *Model) toggleTheme() {
	theme := store.ToggleTheme(m.styles.Theme())
	m.applyTheme(theme)
	if err := m.store.SetTheme(theme); err != nil {
		m.fail("save theme", err)
	}
}

// fail logs a preference store error and shows it until the next key press.
func (m *Model) fail(op string, err error) {
	log.Error().Err(err).Str("op", op).Msg("Preference store failed")
	m.err = fmt.Errorf("%s: %w", op, err)
}

func (m *Model) applyTheme(theme string) {
	m.styles = NewStyles(theme)
	m.view.styles = m.styles
	m.spinner.Style = m.styles.spin
	m.composer.SetPromptStyle(m.styles)
	m.nameInput.SetPromptStyle(m.styles)
	m.transcript.Refresh()
}

func (m *Model) resize() {
	m.composer.SetWidth(m.width)
	m.nameInput.SetWidth(modalWidth(m.width))
	// Border on both sides plus a gap and the scrollbar column
	m.view.SetSize(m.width-4, m.transcriptBoxHeight()-2)
	m.transcript.Refresh()
}

func (m Model) transcriptBoxHeight() int {
	h := m.height - headerHeight - indicatorHeight - inputHeight - statusHeight
	if h < minBoxHeight {
		h = minBoxHeight
	}
	return h
}

// indicatorRow is the screen row of the new message indicator.
func (m Model) indicatorRow() int {
	return headerHeight + m.transcriptBoxHeight()
}

func (m Model) renderHeader() string {
	s := m.styles
	left := s.title.Render("minichat")
	if m.name != "" {
		left += s.headerMeta.Render("  ·  you are " + m.name)
	}
	right := m.live.View(s) + "  " + ThemeIcon(s.Theme())
	return s.header.Render(joinEnds(left, right, m.width-2))
}

func (m Model) renderTranscript() string {
	offset, visible, total := m.view.Metrics()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.view.View(),
		" ",
		renderScrollbar(visible, total, offset, m.styles),
	)
	return m.styles.transcript.Render(body)
}

func (m Model) renderIndicator() string {
	text := m.transcript.Indicator()
	if text == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.styles.indicator.Render(text))
}

func (m Model) renderModal() string {
	s := m.styles
	title := "Welcome to minichat"
	hint := "Enter to start"
	if m.name != "" {
		title = "Change your display name"
		hint = "Enter to save • Esc to cancel"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.modalTitle.Render(title),
		"",
		m.nameInput.View(modalWidth(m.width), s),
		s.muted.Render(hint),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s.modal.Render(content))
}

func modalWidth(width int) int {
	w := width - 12
	if w > 48 {
		w = 48
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) now() time.Time {
	if m.testTime != nil {
		return *m.testTime
	}
	return time.Now()
}

func (m Model) startSimulation() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		sim.Start()
		return nil
	}
}

func (m Model) toggleSimulation() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		sim.Toggle()
		return nil
	}
}

func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventCh
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Key bindings
var keys = struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Help      key.Binding
	Escape    key.Binding
	Enter     key.Binding
	Compose   key.Binding
	Bottom    key.Binding
	Emoji     key.Binding
	Theme     key.Binding
	Rename    key.Binding
	Pause     key.Binding
}{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:      key.NewBinding(key.WithKeys("q")),
	Help:      key.NewBinding(key.WithKeys("?")),
	Escape:    key.NewBinding(key.WithKeys("esc")),
	Enter:     key.NewBinding(key.WithKeys("enter")),
	Compose:   key.NewBinding(key.WithKeys("/", "i")),
	Bottom:    key.NewBinding(key.WithKeys("end", "G")),
	Emoji:     key.NewBinding(key.WithKeys("ctrl+e")),
	Theme:     key.NewBinding(key.WithKeys("ctrl+t")),
	Rename:    key.NewBinding(key.WithKeys("ctrl+n")),
	Pause:     key.NewBinding(key.WithKeys("ctrl+p")),
}
