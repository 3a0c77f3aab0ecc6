package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	serverURL  string
	configPath string
	cfg        internal.Config

	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Terminal client for a locally hosted RAG chat backend",
	Long: `A terminal client for a locally hosted retrieval-augmented-generation
chat backend.

The client talks to the backend over its HTTP/JSON API and the streaming
chat endpoint. It covers the whole surface: sessions, live chat with
agent-action approvals, uploaded files, prompt templates, settings,
search, and dashboard statistics.

Features:
  • Full-screen chat UI with streaming responses and markdown rendering
  • Approval cards for agent actions that need consent
  • Session management (list, rename, pin, delete, export)
  • File manager (upload, preview, ingest, tags)
  • Prompt template library
  • Live sync with sessions driven from the CLI side of the backend

Quick Start:
  ragchat ui                       # Open the full-screen interface
  ragchat sessions                 # List chat sessions
  ragchat export 3 --format md     # Export session 3 as Markdown

Configuration lives in ~/.ragchat/config.yaml; --server overrides it.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		path := configPath
		if path == "" {
			var err error
			path, err = internal.DefaultConfigPath()
			if err != nil {
				return err
			}
		}
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
		if serverURL != "" {
			cfg.Server = serverURL
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAPIClient builds a client for the configured backend. Plain
// commands leave the notifier unset, so failures go to the logger.
func newAPIClient() *internal.Client {
	return internal.NewClient(cfg.Server)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
