package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/iksnae/ragchat/internal"
)

// Update is the single writer of model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pollTickMsg:
		m.ticks++
		cmds = append(cmds, m.pollCmd(), pollTick(m.cfg.PollInterval()))
		if m.ticks%healthEvery == 0 {
			cmds = append(cmds, m.checkHealthCmd())
		}
		return m, tea.Batch(cmds...)

	case pollDoneMsg:
		if msg.err != nil {
			// Polling failures stay quiet; the health probe reports outages.
			return m, nil
		}
		m.mode = msg.res.Mode
		m.settings = msg.res.Settings
		m.applyFetched(msg.res.Messages)
		return m, nil

	case healthMsg:
		m.health = msg.health
		m.healthInfo = msg.status
		return m, nil

	case sessionsMsg:
		if msg.err == nil && msg.list != nil {
			m.sessions = msg.list.Sessions
			if m.pickerCursor >= len(m.sessions) {
				m.pickerCursor = 0
			}
		}
		return m, nil

	case historyMsg:
		if msg.err != nil {
			// Drop the dead session so the poller stops asking for it.
			m.newChat()
			m.refreshTranscript()
			return m, m.setStatus("Failed to load session", true)
		}
		m.store.Activate(msg.sessionID)
		m.store.Apply(msg.messages)
		m.approval = nil
		m.turnText = ""
		m.turnErr = ""
		m.turnStopped = false
		m.refreshTranscript()
		return m, nil

	case sessionCreatedMsg:
		if msg.err != nil {
			m.generating = false
			m.store.DropLocal(msg.echoKey)
			return m, m.setStatus("Failed to start a new session", true)
		}
		m.store.Activate(msg.sessionID)
		if m.state != nil {
			m.state.SetInt(internal.StateSessionID, msg.sessionID)
		}
		cmd := m.startStreamCmd(msg.text, msg.echoKey)
		m.staged = nil
		m.refreshTranscript()
		return m, tea.Batch(cmd, m.loadSessionsCmd())

	case streamChunkMsg:
		m.turnText = msg.visible
		m.refreshTranscript()
		return m, m.waitForStream()

	case streamDoneMsg:
		return m, m.finishTurn(msg)

	case decisionMsg:
		if m.approval == nil {
			return m, nil
		}
		m.approval.Complete(msg.res, msg.err)
		m.input.Focus()
		m.refreshTranscript()
		if m.approval.State == internal.ApprovalExecuted &&
			internal.RefreshAfter(m.approval.Request.Tool) {
			return m, tea.Batch(m.loadFilesCmd(), m.loadStatsCmd())
		}
		return m, nil

	case filesMsg:
		if msg.err == nil {
			m.files = msg.files
			if m.fileCursor >= len(m.files) {
				m.fileCursor = 0
			}
		}
		return m, nil

	case statsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case promptsMsg:
		if msg.err == nil {
			m.prompts = msg.prompts
		}
		return m, nil

	case modeSetMsg:
		if msg.err != nil {
			return m, m.setStatus("Failed to switch mode", true)
		}
		m.mode = msg.mode
		return m, m.setStatus("Mode switched to "+msg.mode, false)

	case fileActionMsg:
		if msg.err != nil {
			return m, m.setStatus("Failed to "+msg.action+" "+msg.name, true)
		}
		return m, tea.Batch(
			m.setStatus("Finished "+msg.action+" of "+msg.name, false),
			m.loadFilesCmd(),
			m.loadStatsCmd(),
		)

	case settingsSavedMsg:
		if msg.err != nil {
			return m, m.setStatus("Failed to save settings", true)
		}
		return m, m.setStatus("Settings saved", false)

	case statusExpireMsg:
		if msg.id == m.statusSeq {
			m.statusText = ""
		}
		return m, nil
	}

	return m, nil
}

// applyFetched merges polled messages and retires the finished turn's
// assistant echo once the server's copy arrives.
func (m *Model) applyFetched(msgs []internal.Message) {
	appended := m.store.Apply(msgs)
	if len(appended) == 0 {
		return
	}
	if !m.generating && m.turnText != "" {
		for _, am := range appended {
			if am.Role == "assistant" {
				m.turnText = ""
				m.turnStopped = false
				break
			}
		}
	}
	m.refreshTranscript()
}

// finishTurn concludes a streaming exchange.
func (m *Model) finishTurn(msg streamDoneMsg) tea.Cmd {
	m.generating = false
	m.cancelStream = nil

	if msg.err != nil {
		// The echo stays visible next to the error, as a failed send
		// still shows what was attempted. Mid-stream failures keep
		// whatever text arrived.
		if msg.res != nil {
			m.turnText = msg.res.Text
		}
		m.turnErr = "Generation failed"
		m.refreshTranscript()
		return m.setStatus("Generation failed", true)
	}

	res := msg.res
	m.turnText = res.Text
	m.turnElapsed = res.Elapsed
	m.turnStopped = res.Stopped
	if res.Approval != nil {
		m.approval = internal.NewApprovalCard(*res.Approval)
		m.input.Blur()
	}
	m.refreshTranscript()
	return nil
}

func (m *Model) resize(w, h int) {
	m.width = w
	m.height = h

	m.input.SetWidth(w - 4)

	headerH := 2
	statusH := 1
	inputH := m.input.Height() + 1
	vpH := h - headerH - statusH - inputH
	if vpH < 3 {
		vpH = 3
	}
	if !m.ready {
		m.viewport = viewport.New(w, vpH)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = vpH
	}

	wrap := w - 4
	if wrap < 20 {
		wrap = 20
	}
	style := glamour.WithAutoStyle()
	switch m.cfg.Theme {
	case "dark", "light":
		style = glamour.WithStandardStyle(m.cfg.Theme)
	}
	if r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}
	m.refreshTranscript()
}

// handleKey routes keys by precedence: quit, modal picker, pending
// approval, screen-local bindings, then the composer.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		if m.cancelStream != nil {
			m.cancelStream()
		}
		return m, tea.Quit
	}

	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	if m.view == internal.ViewChat && m.approval != nil && m.approval.CanDecide() {
		switch msg.String() {
		case "y":
			if m.approval.Begin("approve") {
				m.refreshTranscript()
				return m, m.decideCmd("approve")
			}
			return m, nil
		case "n":
			if m.approval.Begin("deny") {
				m.refreshTranscript()
				return m, m.decideCmd("deny")
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "tab":
		return m, m.cycleView(1)
	case "shift+tab":
		return m, m.cycleView(-1)
	}

	switch m.view {
	case internal.ViewChat:
		return m.handleChatKey(msg)
	case internal.ViewFiles:
		return m.handleFilesKey(msg)
	case internal.ViewDashboard:
		if msg.String() == "r" {
			return m, tea.Batch(m.loadStatsCmd(), m.loadSessionsCmd(), m.checkHealthCmd())
		}
	case internal.ViewControls:
		switch msg.String() {
		case "m":
			next := "browser"
			if m.mode == "browser" {
				next = "cli"
			}
			return m, m.setModeCmd(next)
		case "t":
			if m.cfg.Theme == "dark" {
				m.cfg.Theme = "light"
			} else {
				m.cfg.Theme = "dark"
			}
			if m.state != nil {
				m.state.Set(internal.StateTheme, m.cfg.Theme)
			}
			m.resize(m.width, m.height)
			return m, m.setStatus("Theme: "+m.cfg.Theme, false)
		}
	case internal.ViewSettings:
		if msg.String() == "r" {
			return m, m.pollCmd()
		}
	}
	if m.view != internal.ViewChat {
		if v, ok := viewByDigit(msg.String()); ok {
			return m, m.switchView(v)
		}
	}
	return m, nil
}

func viewByDigit(key string) (internal.View, bool) {
	views := internal.Views()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(views) {
			return views[i], true
		}
	}
	return 0, false
}

func (m *Model) cycleView(dir int) tea.Cmd {
	views := internal.Views()
	cur := 0
	for i, v := range views {
		if v == m.view {
			cur = i
			break
		}
	}
	next := (cur + dir + len(views)) % len(views)
	return m.switchView(views[next])
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Stop is idempotent; pressing it while idle does nothing.
		if m.generating && m.cancelStream != nil {
			m.cancelStream()
		}
		return m, nil
	case "enter":
		return m, m.sendMessage()
	case "ctrl+o":
		m.pickerOpen = true
		return m, m.loadSessionsCmd()
	case "ctrl+n":
		m.newChat()
		m.refreshTranscript()
		return m, m.setStatus("New chat: a session is created with your first message", false)
	case "ctrl+d":
		m.deepSearch = !m.deepSearch
		if m.deepSearch {
			return m, m.setStatus("Deep search on", false)
		}
		return m, m.setStatus("Deep search off", false)
	}

	if m.mode == "cli" {
		// Backend drives the conversation; the composer is locked.
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendMessage validates and dispatches the composer content. Empty
// input is rejected before any network work.
func (m *Model) sendMessage() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" && len(m.staged) == 0 {
		return nil
	}
	if m.mode == "cli" {
		return m.setStatus("Chat is driven from the backend CLI right now", false)
	}
	if m.generating {
		return nil
	}
	if m.approval != nil && m.approval.CanDecide() {
		return m.setStatus("Decide on the pending approval first: y approve, n deny", true)
	}

	m.input.Reset()
	key := m.store.AppendLocal(text)
	m.generating = true
	m.turnText = ""
	m.turnErr = ""
	m.turnStopped = false
	m.approval = nil

	if !m.store.HasActive() {
		m.refreshTranscript()
		return m.createSessionCmd(text, key)
	}
	cmd := m.startStreamCmd(text, key)
	m.staged = nil
	m.refreshTranscript()
	return cmd
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+o":
		m.pickerOpen = false
		return m, nil
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil
	case "down", "j":
		if m.pickerCursor < len(m.sessions)-1 {
			m.pickerCursor++
		}
		return m, nil
	case "enter":
		m.pickerOpen = false
		if m.pickerCursor < len(m.sessions) {
			return m, m.activateSession(m.sessions[m.pickerCursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case "down", "j":
		if m.fileCursor < len(m.files)-1 {
			m.fileCursor++
		}
	case "r":
		return m, m.loadFilesCmd()
	case "d":
		if m.fileCursor < len(m.files) {
			name := m.files[m.fileCursor].Name
			return m, tea.Batch(m.deleteFileCmd(name), m.setStatus("Deleting "+name+"...", false))
		}
	case "i":
		if m.fileCursor < len(m.files) {
			name := m.files[m.fileCursor].Name
			return m, tea.Batch(m.ingestFileCmd(name), m.setStatus("Ingesting "+name+"...", false))
		}
	case "a":
		if m.fileCursor < len(m.files) {
			name := m.files[m.fileCursor].Name
			if m.unstage(name) {
				return m, m.setStatus("Unstaged "+name, false)
			}
			m.staged = append(m.staged, internal.Attachment{Name: name, Type: attachmentType(name)})
			return m, m.setStatus("Staged "+name+" for the next message", false)
		}
	}
	return m, nil
}

// unstage removes a previously staged attachment by name and reports
// whether it was present.
func (m *Model) unstage(name string) bool {
	for i, a := range m.staged {
		if a.Name == name {
			m.staged = append(m.staged[:i], m.staged[i+1:]...)
			return true
		}
	}
	return false
}

func attachmentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "image"
	}
	return "document"
}
