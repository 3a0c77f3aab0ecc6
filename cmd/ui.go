package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"chat"},
	Short:   "Open the full-screen interface",
	Long: `Open the full-screen terminal interface: dashboard, chat with
streaming responses and approval cards, file manager, settings, and
controls. The last open screen and active session are restored on the
next launch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()

		statePath, err := internal.DefaultStatePath()
		if err != nil {
			return err
		}
		state, err := internal.OpenStateStore(statePath)
		if err != nil {
			// UI state is a convenience; run without persistence
			// rather than refuse to start.
			internal.LogWarn("ui state unavailable: %v", err)
			state = nil
		}
		if state != nil {
			defer state.Close()
		}

		model := tui.New(cfg, client, state)
		if cmd.CalledAs() == "chat" {
			model.OpenChat()
		}

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("ui failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
