package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change backend settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := newAPIClient().GetSettings(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println(headerStyle.Render("⚙️  Backend settings"))
		fmt.Println()
		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", nameStyle.Render(k), dateStyle.Render(fmt.Sprintf("%v", settings[k])))
		}
		_ = w.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one backend setting",
	Long: `Change one backend setting. Values are sent as JSON when they parse
as a number, boolean, or JSON document, otherwise as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		change := internal.Settings{args[0]: coerceValue(args[1])}
		if err := newAPIClient().UpdateSettings(cmd.Context(), change); err != nil {
			return fmt.Errorf("failed to update %s: %w", args[0], err)
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

// coerceValue keeps numeric and boolean settings typed on the wire.
func coerceValue(raw string) interface{} {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset backend settings to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().ResetSettings(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Println("Settings reset to defaults")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
