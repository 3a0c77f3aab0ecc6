package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newAPIClient().GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}

		fmt.Println(headerStyle.Render("📊 Dashboard"))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%d\t\n", nameStyle.Render("Documents"), stats.TotalDocuments)
		_, _ = fmt.Fprintf(w, "%s\t%d\t\n", nameStyle.Render("Chunks"), stats.TotalChunks)
		_, _ = fmt.Fprintf(w, "%s\t%d\t\n", nameStyle.Render("Sessions"), stats.TotalSessions)
		_, _ = fmt.Fprintf(w, "%s\t%d\t\n", nameStyle.Render("Messages"), stats.TotalMessages)
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", nameStyle.Render("Model"), dateStyle.Render(stats.CurrentModel))
		hybrid := "off"
		if stats.HybridSearch {
			hybrid = "on"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", nameStyle.Render("Hybrid search"), dateStyle.Render(hybrid))
		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
