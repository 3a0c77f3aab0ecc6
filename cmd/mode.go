package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode <cli|browser>",
	Short: "Switch the backend chat mode",
	Long: `Switch the backend between cli mode (the backend owns the
conversation, this client only syncs) and browser mode (live chat from
this client).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := args[0]
		if mode != "cli" && mode != "browser" {
			return fmt.Errorf("invalid mode: %s (expected cli or browser)", mode)
		}
		if err := newAPIClient().SetMode(cmd.Context(), mode); err != nil {
			return fmt.Errorf("failed to set mode: %w", err)
		}
		fmt.Printf("Mode set to %s\n", mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
