package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/iksnae/ragchat/internal"
)

// View renders the full screen: header, the active screen, status
// line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var body string
	if m.pickerOpen {
		body = m.viewPicker()
	} else {
		switch m.view {
		case internal.ViewChat:
			body = m.viewChat()
		case internal.ViewFiles:
			body = m.viewFiles()
		case internal.ViewSettings:
			body = m.viewSettings()
		case internal.ViewControls:
			body = m.viewControls()
		default:
			body = m.viewDashboard()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewStatus(),
	)
}

func (m *Model) viewHeader() string {
	var tabs []string
	for _, v := range internal.Views() {
		label := v.String()
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	healthLabel := healthStyleFor(m.health).Render("● " + m.health.String())
	left := appTitleStyle.Render("ragchat") + strings.Join(tabs, "")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(healthLabel) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + healthLabel
}

func (m *Model) viewStatus() string {
	if m.statusText != "" {
		if m.statusError {
			return statusErrStyle.Render(m.statusText)
		}
		return statusOKStyle.Render(m.statusText)
	}
	hint := "tab: switch screen • ctrl+c: quit"
	if m.view == internal.ViewChat {
		hint = "enter: send • esc: stop • ctrl+o: sessions • ctrl+n: new chat • ctrl+d: deep search • tab: switch screen"
	}
	return mutedStyle.Render(hint)
}

// --- chat ---

func (m *Model) viewChat() string {
	var composer string
	switch {
	case m.mode == "cli":
		composer = overlayStyle.Render(
			"Chat is in CLI mode\nSwitch to browser mode on the Controls screen to type here",
		)
	case m.approval != nil && m.approval.CanDecide():
		composer = mutedStyle.Render("Waiting for your decision: y approve, n deny")
	default:
		composer = m.input.View()
	}

	extras := []string{}
	if m.deepSearch {
		extras = append(extras, statusWarnStyle.Render("deep search"))
	}
	for _, a := range m.staged {
		extras = append(extras, mutedStyle.Render("📎 "+a.Name))
	}
	if len(extras) > 0 {
		composer = strings.Join(extras, " ") + "\n" + composer
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), composer)
}

// refreshTranscript rebuilds the conversation view and pins it to the
// bottom.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m *Model) transcript() string {
	var b strings.Builder

	if !m.store.HasActive() && len(m.store.Pending()) == 0 {
		b.WriteString(mutedStyle.Render("No session yet. Your first message starts one."))
		b.WriteString("\n")
	}

	for _, msg := range m.store.Messages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	for _, p := range m.store.Pending() {
		b.WriteString(userLabelStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(pendingStyle.Render(m.wrap(p.Content)))
		b.WriteString("\n\n")
	}

	if m.turnText != "" || m.generating {
		b.WriteString(assistantLabelStyle.Render("Assistant"))
		if m.generating {
			b.WriteString(" " + m.spin.View())
		}
		b.WriteString("\n")
		if m.turnText != "" {
			b.WriteString(m.renderMarkdown(m.turnText))
			b.WriteString("\n")
		}
		if !m.generating && m.approval == nil {
			footer := fmt.Sprintf("took %.1fs", m.turnElapsed.Seconds())
			if m.turnStopped {
				footer = "stopped • " + footer
			}
			b.WriteString(footerStyle.Render(footer))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.turnErr != "" {
		b.WriteString(errorBlockStyle.Render(m.turnErr))
		b.WriteString("\n\n")
	}

	if m.approval != nil {
		b.WriteString(m.renderApproval())
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderMessage(msg internal.Message) string {
	var b strings.Builder
	if msg.Role == "user" {
		b.WriteString(userLabelStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(m.wrap(msg.Content))
	} else {
		b.WriteString(assistantLabelStyle.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(msg.Content))
	}
	if t := internal.ParseMessageTime(msg.CreatedAt); !t.IsZero() {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(t.Format("15:04")))
	}
	b.WriteString("\n")
	return b.String()
}

// renderMarkdown renders assistant content through glamour, falling
// back to wrapped plain text when rendering is unavailable.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return m.wrap(text)
}

func (m *Model) wrap(text string) string {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return wordwrap.String(text, w)
}

func (m *Model) renderApproval() string {
	a := m.approval
	var b strings.Builder
	b.WriteString("⚠ Approval required\n\n")
	b.WriteString(fmt.Sprintf("Tool:   %s\n", a.Request.Tool))
	if len(a.Request.Args) > 0 {
		b.WriteString(fmt.Sprintf("Args:   %s\n", string(a.Request.Args)))
	}
	if a.Request.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", a.Request.Reason))
	}
	b.WriteString("\n")

	switch a.State {
	case internal.ApprovalPresented:
		b.WriteString("y approve • n deny")
	case internal.ApprovalApproving:
		b.WriteString("Approving...")
	case internal.ApprovalDenying:
		b.WriteString("Denying...")
	case internal.ApprovalExecuted:
		b.WriteString(statusOKStyle.Render("✓ Approved and executed"))
		if a.Result != "" {
			b.WriteString("\n" + a.Result)
		}
	case internal.ApprovalDenied:
		b.WriteString("✗ Denied")
	case internal.ApprovalFailed:
		b.WriteString(statusErrStyle.Render("Decision failed: " + a.ErrText))
		b.WriteString("\ny retry approve • n retry deny")
	}

	style := approvalCardStyle
	switch a.State {
	case internal.ApprovalExecuted:
		style = approvalDoneStyle
	case internal.ApprovalDenied:
		style = approvalDeniedStyle
	}
	return style.Width(m.contentWidth()).Render(b.String())
}

// --- dashboard ---

func (m *Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.stats != nil {
		cards := []string{
			statCard("Documents", fmt.Sprintf("%d", m.stats.TotalDocuments)),
			statCard("Chunks", fmt.Sprintf("%d", m.stats.TotalChunks)),
			statCard("Sessions", fmt.Sprintf("%d", m.stats.TotalSessions)),
			statCard("Messages", fmt.Sprintf("%d", m.stats.TotalMessages)),
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n\n")
		b.WriteString("  Model: " + statStyle.Render(m.stats.CurrentModel))
		if m.stats.HybridSearch {
			b.WriteString("  •  hybrid search " + statusOKStyle.Render("on"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(mutedStyle.Render("  Waiting for the backend...") + "\n")
	}

	if m.healthInfo != nil && m.healthInfo.Ollama != nil && m.healthInfo.Ollama.Model != "" {
		b.WriteString(mutedStyle.Render("  Ollama model: "+m.healthInfo.Ollama.Model) + "\n")
	}

	b.WriteString("\n  Recent sessions\n")
	if len(m.sessions) == 0 {
		b.WriteString(mutedStyle.Render("  none yet") + "\n")
	}
	for i, s := range m.sessions {
		if i >= 8 {
			break
		}
		pin := "  "
		if s.IsPinned {
			pin = "📌"
		}
		marker := "  "
		if s.ID == m.store.ActiveID() {
			marker = listCursorStyle.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", marker, pin, s.Name))
	}

	b.WriteString("\n" + mutedStyle.Render("  r: refresh"))
	return m.fillBody(b.String())
}

func statCard(label, value string) string {
	return lipgloss.NewStyle().Padding(0, 2).Render(
		statStyle.Render(value) + "\n" + mutedStyle.Render(label),
	)
}

// --- files ---

func (m *Model) viewFiles() string {
	var b strings.Builder
	b.WriteString("\n")
	if len(m.files) == 0 {
		b.WriteString(mutedStyle.Render("  No files uploaded. Use `ragchat files upload` to add some.") + "\n")
	}
	for i, f := range m.files {
		cursor := "  "
		if i == m.fileCursor {
			cursor = listCursorStyle.Render("▸ ")
		}
		indexed := mutedStyle.Render("·")
		if f.Indexed {
			indexed = statusOKStyle.Render("✓")
		}
		line := fmt.Sprintf("%s%s %-40s %8s", cursor, indexed, truncate(f.Name, 40), fileSize(f))
		if len(f.Tags) > 0 {
			line += "  " + mutedStyle.Render(strings.Join(f.Tags, ", "))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("  ↑/↓: move • a: attach to chat • d: delete • i: ingest • r: refresh"))
	return m.fillBody(b.String())
}

func fileSize(f internal.FileInfo) string {
	if f.SizeText != "" {
		return f.SizeText
	}
	size := float64(f.Size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.0f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n-1]) + "…"
	}
	return s
}

// --- settings ---

func (m *Model) viewSettings() string {
	var b strings.Builder
	b.WriteString("\n")
	if len(m.settings) == 0 {
		b.WriteString(mutedStyle.Render("  Settings not loaded yet") + "\n")
	} else {
		keys := make([]string, 0, len(m.settings))
		for k := range m.settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %-24s %v\n", k, m.settings[k]))
		}
	}
	b.WriteString("\n" + mutedStyle.Render("  Edit with `ragchat settings set <key> <value>` • r: refresh"))
	return m.fillBody(b.String())
}

// --- controls ---

func (m *Model) viewControls() string {
	var b strings.Builder
	b.WriteString("\n")

	modeLabel := statusWarnStyle.Render("cli")
	if m.mode == "browser" {
		modeLabel = statusOKStyle.Render("browser")
	}
	b.WriteString("  Chat mode: " + modeLabel + "   (m: toggle)\n")

	deep := "off"
	if m.deepSearch {
		deep = "on"
	}
	b.WriteString("  Deep search: " + deep + "   (ctrl+d in chat)\n")
	b.WriteString("  Theme: " + m.cfg.Theme + "   (t: toggle)\n")

	b.WriteString("\n  Saved prompts\n")
	if len(m.prompts) == 0 {
		b.WriteString(mutedStyle.Render("  none yet; add with `ragchat prompts add`") + "\n")
	}
	for _, p := range m.prompts {
		b.WriteString("  • " + p.Title + "\n")
		b.WriteString("    " + mutedStyle.Render(truncate(p.Content, 70)) + "\n")
	}
	return m.fillBody(b.String())
}

// --- session picker ---

func (m *Model) viewPicker() string {
	var b strings.Builder
	b.WriteString("Sessions\n\n")
	if len(m.sessions) == 0 {
		b.WriteString(mutedStyle.Render("none yet") + "\n")
	}
	for i, s := range m.sessions {
		cursor := "  "
		if i == m.pickerCursor {
			cursor = listCursorStyle.Render("▸ ")
		}
		name := s.Name
		if s.IsPinned {
			name = "📌 " + name
		}
		if s.ID == m.store.ActiveID() {
			name += mutedStyle.Render("  (current)")
		}
		b.WriteString(cursor + name + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("enter: open • esc: close"))
	return m.fillBody(overlayStyle.Width(m.contentWidth()).Render(b.String()))
}

// --- layout helpers ---

func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// fillBody pads a screen to the viewport height so the status line
// stays anchored to the bottom row.
func (m *Model) fillBody(s string) string {
	lines := strings.Count(s, "\n") + 1
	want := m.viewport.Height + m.input.Height() + 1
	for lines < want {
		s += "\n"
		lines++
	}
	return s
}
