package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	promptTitle   string
	promptContent string
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List and manage saved prompt templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, err := newAPIClient().ListPrompts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load prompts: %w", err)
		}
		if len(prompts) == 0 {
			fmt.Println(headerStyle.Render("📝 No saved prompts"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("📝 %d prompt(s)", len(prompts))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Content")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, p := range prompts {
			content := p.Content
			if len(content) > 60 {
				content = content[:57] + "..."
			}
			content = strings.ReplaceAll(content, "\n", " ")
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				idStyle.Render(strconv.FormatInt(p.ID, 10)),
				nameStyle.Render(p.Title), dateStyle.Render(content))
		}
		_ = w.Flush()
		return nil
	},
}

var promptsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new prompt template",
	RunE: func(cmd *cobra.Command, args []string) error {
		if promptTitle == "" || promptContent == "" {
			return fmt.Errorf("both --title and --content are required")
		}
		if err := newAPIClient().CreatePrompt(cmd.Context(), promptTitle, promptContent); err != nil {
			return fmt.Errorf("failed to save prompt: %w", err)
		}
		fmt.Printf("Saved prompt %q\n", promptTitle)
		return nil
	},
}

var promptsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved prompt template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid prompt id: %s", args[0])
		}
		if err := newAPIClient().DeletePrompt(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete prompt %d: %w", id, err)
		}
		fmt.Printf("Deleted prompt %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.AddCommand(promptsAddCmd)
	promptsCmd.AddCommand(promptsRmCmd)
	promptsAddCmd.Flags().StringVarP(&promptTitle, "title", "t", "", "Prompt title")
	promptsAddCmd.Flags().StringVarP(&promptContent, "content", "c", "", "Prompt content")
}
