package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage chat sessions",
	Long:  `List all chat sessions on the backend, or manage them with the subcommands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		list, err := client.ListSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		displaySessions(list)
		return nil
	},
}

func displaySessions(list *internal.SessionList) {
	if len(list.Sessions) == 0 {
		fmt.Println(headerStyle.Render("📋 No sessions found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(list.Sessions)))
	fmt.Println(header)
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Pinned")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, session := range list.Sessions {
		name := session.Name
		if name == "" {
			name = "Untitled"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		pinned := dateStyle.Render("—")
		if session.IsPinned {
			pinned = pinStyle.Render("📌")
		}

		updated := dateStyle.Render("—")
		if t := internal.ParseMessageTime(session.UpdatedAt); !t.IsZero() {
			updated = dateStyle.Render(humanTime(t))
		}

		marker := " "
		if session.ID == list.Current {
			marker = titleStyle.Render("▸")
		}

		_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t\n",
			marker, idStyle.Render(strconv.FormatInt(session.ID, 10)),
			nameStyle.Render(name), pinned, updated)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: `ragchat ui` opens the full-screen interface"))
}

// humanTime renders recent timestamps compactly, the way the session
// picker does.
func humanTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <name>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if err := newAPIClient().RenameSession(cmd.Context(), id, args[1]); err != nil {
			return fmt.Errorf("failed to rename session %d: %w", id, err)
		}
		fmt.Printf("Renamed session %d to %q\n", id, args[1])
		return nil
	},
}

var sessionsPinCmd = &cobra.Command{
	Use:   "pin <session-id>",
	Short: "Pin a session to the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runPin(true),
}

var sessionsUnpinCmd = &cobra.Command{
	Use:   "unpin <session-id>",
	Short: "Unpin a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runPin(false),
}

func runPin(pinned bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		if err := newAPIClient().PinSession(cmd.Context(), id, pinned); err != nil {
			return fmt.Errorf("failed to update pin on session %d: %w", id, err)
		}
		if pinned {
			fmt.Printf("Pinned session %d\n", id)
		} else {
			fmt.Printf("Unpinned session %d\n", id)
		}
		return nil
	}
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session-id> [session-id...]",
	Short: "Delete one or more sessions",
	Long: `Delete sessions by id. A single id issues a plain delete; several ids
are sent as one bulk delete so the backend can report how many were
actually removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := parseSessionID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		client := newAPIClient()
		if len(ids) == 1 {
			if err := client.DeleteSession(cmd.Context(), ids[0]); err != nil {
				return fmt.Errorf("failed to delete session %d: %w", ids[0], err)
			}
			fmt.Printf("Deleted session %d\n", ids[0])
			return nil
		}

		count, err := client.BulkDeleteSessions(cmd.Context(), ids)
		if err != nil {
			return fmt.Errorf("bulk delete failed: %w", err)
		}
		fmt.Printf("Deleted %d session(s)\n", count)
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		msgs, err := newAPIClient().Messages(cmd.Context(), id, 0)
		if err != nil {
			return fmt.Errorf("failed to load session %d: %w", id, err)
		}
		if len(msgs) == 0 {
			fmt.Println(headerStyle.Render("📋 No messages in this session"))
			return nil
		}
		for _, msg := range msgs {
			role := titleStyle.Render(strings.ToUpper(msg.Role))
			if msg.Role == "user" {
				role = pinStyle.Render(strings.ToUpper(msg.Role))
			}
			when := ""
			if t := internal.ParseMessageTime(msg.CreatedAt); !t.IsZero() {
				when = dateStyle.Render(" " + t.Format("2006-01-02 15:04"))
			}
			fmt.Printf("%s%s\n%s\n\n", role, when, msg.Content)
		}
		return nil
	},
}

func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id: %s", arg)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsPinCmd)
	sessionsCmd.AddCommand(sessionsUnpinCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}
