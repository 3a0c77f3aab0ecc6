package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if the backend is reachable and responding",
	Long: `Check the health of the backend by verifying:
  • Backend reachability
  • Model availability (Ollama)
  • Session listing
  • Index statistics

This command is useful for debugging connection issues before opening
the full-screen interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		ctx := cmd.Context()

		fmt.Println(sectionStyle.Render("🔍 RAG Backend Health Check"))
		fmt.Println()

		// Step 1: Probe the health endpoint
		fmt.Println(infoStyle.Render("Step 1: Probing " + cfg.Server + " ..."))
		health, status := client.CheckHealth(ctx)
		switch health {
		case internal.HealthConnected:
			fmt.Println(successStyle.Render("✅ Backend reachable, model responding"))
			if healthcheckVerbose && status != nil && status.Ollama != nil {
				fmt.Printf("   Model: %s\n", status.Ollama.Model)
			}
		case internal.HealthBackendReady:
			fmt.Println(warningStyle.Render("⚠️  Backend reachable, but no model responding"))
		default:
			fmt.Println(errorStyle.Render("❌ Backend offline"))
			fmt.Println()
			fmt.Println("Check that the backend is running and that --server (or")
			fmt.Println("~/.ragchat/config.yaml) points at it.")
			return fmt.Errorf("health check failed: backend offline")
		}
		fmt.Println()

		// Step 2: List sessions
		fmt.Println(infoStyle.Render("Step 2: Loading sessions..."))
		list, err := client.ListSessions(ctx)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to load sessions:"), err)
			return fmt.Errorf("health check failed: sessions unavailable")
		}
		if len(list.Sessions) > 0 {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(list.Sessions))))
			if healthcheckVerbose {
				for i, s := range list.Sessions {
					if i < 5 { // Show first 5
						name := s.Name
						if name == "" {
							name = "Untitled"
						}
						fmt.Printf("   [%d] %s (ID: %d)\n", i+1, name, s.ID)
					}
				}
				if len(list.Sessions) > 5 {
					fmt.Printf("   ... and %d more\n", len(list.Sessions)-5)
				}
			}
		} else {
			fmt.Println(warningStyle.Render("⚠️  No sessions yet"))
			fmt.Println("   Sessions are created when the first message is sent.")
		}
		fmt.Println()

		// Step 3: Index statistics
		fmt.Println(infoStyle.Render("Step 3: Loading index statistics..."))
		stats, err := client.GetStats(ctx)
		if err != nil {
			fmt.Println(warningStyle.Render("⚠️  Stats unavailable:"), err)
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ %d document(s), %d chunk(s) indexed", stats.TotalDocuments, stats.TotalChunks)))
			if healthcheckVerbose {
				fmt.Printf("   Model: %s\n", stats.CurrentModel)
				fmt.Printf("   Hybrid search: %v\n", stats.HybridSearch)
			}
		}
		fmt.Println()

		// Summary
		fmt.Println(sectionStyle.Render("📊 Summary"))
		fmt.Println()
		if health == internal.HealthConnected {
			fmt.Println(successStyle.Render("✅ Health check passed!"))
			fmt.Println(successStyle.Render("   • Backend: " + health.String()))
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Sessions: %d found", len(list.Sessions))))
			return nil
		}
		fmt.Println(warningStyle.Render("⚠️  Backend up, model not responding"))
		fmt.Println("   • Chat will fail until a model is available")
		fmt.Println("   • Session management still works")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "detail", false, "Show detailed diagnostic information")
}
