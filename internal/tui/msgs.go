package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/ragchat/internal"
)

// Messages delivered into the update loop. Commands only do network
// work; every piece of state they touch is applied here, on the loop.
type (
	// pollTickMsg fires the synchronization cycle.
	pollTickMsg struct{}

	// pollDoneMsg carries one cycle's fetch results.
	pollDoneMsg struct {
		res *internal.SyncResult
		err error
	}

	// healthMsg carries a backend probe result.
	healthMsg struct {
		health internal.Health
		status *internal.HealthStatus
	}

	// sessionsMsg carries the session list.
	sessionsMsg struct {
		list *internal.SessionList
		err  error
	}

	// historyMsg carries a full history fetch after a session pick.
	historyMsg struct {
		sessionID int64
		messages  []internal.Message
		err       error
	}

	// sessionCreatedMsg concludes lazy session creation; text is the
	// first message, still waiting to be streamed.
	sessionCreatedMsg struct {
		sessionID int64
		text      string
		echoKey   string
		err       error
	}

	// streamChunkMsg carries the accumulated visible buffer of an
	// in-flight reply.
	streamChunkMsg struct {
		visible string
	}

	// streamDoneMsg concludes a streaming turn.
	streamDoneMsg struct {
		res     *internal.StreamResult
		echoKey string
		err     error
	}

	// decisionMsg concludes an approval decision round-trip.
	decisionMsg struct {
		decision string
		res      *internal.DecisionResult
		err      error
	}

	// filesMsg carries the file list.
	filesMsg struct {
		files []internal.FileInfo
		err   error
	}

	// statsMsg carries the dashboard aggregates.
	statsMsg struct {
		stats *internal.Stats
		err   error
	}

	// promptsMsg carries the saved prompts.
	promptsMsg struct {
		prompts []internal.Prompt
		err     error
	}

	// modeSetMsg concludes a mode toggle.
	modeSetMsg struct {
		mode string
		err  error
	}

	// fileActionMsg concludes a delete or ingest on one file.
	fileActionMsg struct {
		action string
		name   string
		err    error
	}

	// settingsSavedMsg concludes a settings write.
	settingsSavedMsg struct {
		err error
	}

	// statusExpireMsg clears the transient status line.
	statusExpireMsg struct {
		id int
	}
)

// statusTTL is how long a transient status line stays visible.
const statusTTL = 4 * time.Second

// healthEvery is how many poll ticks pass between backend probes.
const healthEvery = 10

func pollTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func expireStatus(id int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpireMsg{id: id}
	})
}

func (m *Model) pollCmd() tea.Cmd {
	viewing := m.view == internal.ViewChat
	sessionID := m.store.ActiveID()
	cursor := m.store.Cursor()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), internal.PollInterval)
		defer cancel()
		res, err := m.syncer.Poll(ctx, viewing, sessionID, cursor)
		return pollDoneMsg{res: res, err: err}
	}
}

func (m *Model) checkHealthCmd() tea.Cmd {
	return func() tea.Msg {
		health, status := m.client.CheckHealth(context.Background())
		return healthMsg{health: health, status: status}
	}
}

func (m *Model) loadSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		list, err := m.quiet.ListSessions(ctx)
		return sessionsMsg{list: list, err: err}
	}
}

func (m *Model) loadHistoryCmd(sessionID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msgs, err := m.quiet.Messages(ctx, sessionID, 0)
		return historyMsg{sessionID: sessionID, messages: msgs, err: err}
	}
}

func (m *Model) createSessionCmd(text, echoKey string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := m.quiet.CreateSession(ctx, internal.SessionNameFor(text))
		return sessionCreatedMsg{sessionID: id, text: text, echoKey: echoKey, err: err}
	}
}

// startStreamCmd launches the streaming exchange in its own
// goroutine. Chunks flow through m.streamCh so the update loop stays
// the only writer of model state; waitForStream re-arms after every
// delivery.
func (m *Model) startStreamCmd(text, echoKey string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel

	chat := &internal.ChatRequest{
		Message:    text,
		SessionID:  m.store.ActiveID(),
		Files:      m.staged,
		DeepSearch: m.deepSearch,
	}
	ch := m.streamCh

	go func() {
		res, err := m.quiet.StreamChat(ctx, chat, func(visible string) {
			ch <- streamChunkMsg{visible: visible}
		})
		ch <- streamDoneMsg{res: res, echoKey: echoKey, err: err}
	}()

	return m.waitForStream()
}

func (m *Model) waitForStream() tea.Cmd {
	ch := m.streamCh
	return func() tea.Msg {
		return <-ch
	}
}

func (m *Model) decideCmd(decision string) tea.Cmd {
	sessionID := m.store.ActiveID()
	actionID := m.approval.Request.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := m.quiet.ResolveApproval(ctx, sessionID, actionID, decision)
		return decisionMsg{decision: decision, res: res, err: err}
	}
}

func (m *Model) loadFilesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		files, err := m.quiet.ListFiles(ctx)
		return filesMsg{files: files, err: err}
	}
}

func (m *Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		stats, err := m.quiet.GetStats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func (m *Model) loadPromptsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		prompts, err := m.quiet.ListPrompts(ctx)
		return promptsMsg{prompts: prompts, err: err}
	}
}

func (m *Model) setModeCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := m.quiet.SetMode(ctx, mode)
		return modeSetMsg{mode: mode, err: err}
	}
}

func (m *Model) deleteFileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := m.quiet.DeleteFile(ctx, name)
		return fileActionMsg{action: "delete", name: name, err: err}
	}
}

func (m *Model) ingestFileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		err := m.quiet.IngestFile(ctx, name)
		return fileActionMsg{action: "ingest", name: name, err: err}
	}
}

func (m *Model) saveSettingCmd(key string, value interface{}) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := m.quiet.UpdateSettings(ctx, internal.Settings{key: value})
		return settingsSavedMsg{err: err}
	}
}
