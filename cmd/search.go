package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search sessions, messages, and files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		results, err := newAPIClient().Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		total := len(results.Sessions) + len(results.Messages) + len(results.Files)
		if total == 0 {
			fmt.Println(headerStyle.Render("🔍 No results for " + query))
			return nil
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("🔍 %d result(s) for %q", total, query)))
		fmt.Println()

		if len(results.Sessions) > 0 {
			fmt.Println(titleStyle.Render("Sessions"))
			for _, s := range results.Sessions {
				fmt.Printf("  %s %s\n", idStyle.Render(fmt.Sprintf("#%d", s.ID)), nameStyle.Render(s.Name))
			}
			fmt.Println()
		}
		if len(results.Messages) > 0 {
			fmt.Println(titleStyle.Render("Messages"))
			for _, m := range results.Messages {
				snippet := strings.ReplaceAll(m.Snippet, "\n", " ")
				if len(snippet) > 70 {
					snippet = snippet[:67] + "..."
				}
				fmt.Printf("  %s %s\n", idStyle.Render(fmt.Sprintf("#%d", m.SessionID)), dateStyle.Render(snippet))
			}
			fmt.Println()
		}
		if len(results.Files) > 0 {
			fmt.Println(titleStyle.Render("Files"))
			for _, f := range results.Files {
				fmt.Printf("  %s\n", nameStyle.Render(f.Name))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
