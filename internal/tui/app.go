package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/ragchat/internal"
)

// streamBuffer sizes the channel between the streaming goroutine and
// the update loop. Chunks may outpace redraws briefly.
const streamBuffer = 64

// Model is the full-screen application state. All mutation happens in
// Update; commands only fetch and report back.
type Model struct {
	client *internal.Client
	quiet  *internal.Client
	store  *internal.SessionStore
	syncer *internal.Synchronizer
	state  *internal.StateStore
	cfg    internal.Config

	view   internal.View
	width  int
	height int
	ready  bool

	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	// Streaming turn. turnText holds the visible buffer while
	// generating, then lingers as an unconfirmed assistant echo until
	// the polled message replaces it.
	generating   bool
	turnText     string
	turnStopped  bool
	turnErr      string
	turnElapsed  time.Duration
	cancelStream func()
	streamCh     chan tea.Msg

	approval *internal.ApprovalCard

	mode       string
	health     internal.Health
	healthInfo *internal.HealthStatus
	ticks      int

	sessions     []internal.Session
	pickerOpen   bool
	pickerCursor int

	files      []internal.FileInfo
	fileCursor int
	stats      *internal.Stats
	settings   internal.Settings
	prompts    []internal.Prompt

	staged     []internal.Attachment
	deepSearch bool

	statusText  string
	statusError bool
	statusSeq   int

	quitting bool
}

// New builds the application model. The last view and active session
// are restored from the state store; nil state degrades to defaults.
func New(cfg internal.Config, client *internal.Client, state *internal.StateStore) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about your documents..."
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	m := &Model{
		client:     client,
		quiet:      client.Quiet(),
		store:      internal.NewSessionStore(),
		syncer:     internal.NewSynchronizer(client),
		state:      state,
		cfg:        cfg,
		view:       internal.ViewDashboard,
		input:      ta,
		spin:       sp,
		mode:       "cli",
		deepSearch: cfg.DeepSearch,
		streamCh:   make(chan tea.Msg, streamBuffer),
	}

	if state != nil {
		m.view = state.LastView()
		if theme := state.Get(internal.StateTheme); theme != "" {
			m.cfg.Theme = theme
		}
		if id := state.GetInt(internal.StateSessionID); id > 0 {
			m.store.Activate(id)
		}
	}
	return m
}

// Init kicks off the first probe, the initial loads for the restored
// view, and the polling timer.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		textarea.Blink,
		m.checkHealthCmd(),
		m.loadSessionsCmd(),
		m.loadStatsCmd(),
		pollTick(m.cfg.PollInterval()),
	}
	if m.view == internal.ViewFiles {
		cmds = append(cmds, m.loadFilesCmd())
	}
	if m.store.HasActive() {
		cmds = append(cmds, m.loadHistoryCmd(m.store.ActiveID()))
	}
	return tea.Batch(cmds...)
}

// setStatus replaces the transient status line and schedules its
// expiry. The sequence number keeps a stale expiry from clearing a
// newer message.
func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusText = text
	m.statusError = isError
	m.statusSeq++
	return expireStatus(m.statusSeq)
}

// switchView changes the active screen, persists it, and returns the
// refresh loads the target screen wants on entry.
func (m *Model) switchView(v internal.View) tea.Cmd {
	if v == m.view {
		return nil
	}
	m.view = v
	if m.state != nil {
		m.state.SaveView(v)
	}
	var cmds []tea.Cmd
	if v.RefreshOnEnter() {
		switch v {
		case internal.ViewFiles:
			cmds = append(cmds, m.loadFilesCmd())
		case internal.ViewDashboard:
			cmds = append(cmds, m.loadStatsCmd(), m.loadSessionsCmd())
		}
	}
	if v == internal.ViewControls {
		cmds = append(cmds, m.loadPromptsCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// activateSession switches the chat to a session and fetches its full
// history. The store keeps its previous state until the fetch lands.
func (m *Model) activateSession(id int64) tea.Cmd {
	if m.state != nil {
		m.state.SetInt(internal.StateSessionID, id)
	}
	return m.loadHistoryCmd(id)
}

// newChat resets to the lazy "no session yet" state.
func (m *Model) newChat() {
	m.store.Clear()
	m.approval = nil
	m.turnText = ""
	m.turnErr = ""
	m.turnStopped = false
	if m.state != nil {
		m.state.SetInt(internal.StateSessionID, 0)
	}
}

// OpenChat switches the starting screen to chat, overriding the
// restored view. Used by the chat alias.
func (m *Model) OpenChat() {
	m.view = internal.ViewChat
	if m.state != nil {
		m.state.SaveView(internal.ViewChat)
	}
}
