package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tagStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("135")).
	Italic(true)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List and manage uploaded files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := newAPIClient().ListFiles(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load files: %w", err)
		}
		if len(files) == 0 {
			fmt.Println(headerStyle.Render("📁 No uploaded files"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("📁 %d file(s)", len(files))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Size")+"\t"+titleStyle.Render("Indexed")+"\t"+titleStyle.Render("Tags")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, f := range files {
			size := f.SizeText
			if size == "" {
				size = formatFileSize(f.Size)
			}
			indexed := dateStyle.Render("—")
			if f.Indexed {
				indexed = pinStyle.Render("✓")
			}
			tags := dateStyle.Render("—")
			if len(f.Tags) > 0 {
				tags = tagStyle.Render(strings.Join(f.Tags, ", "))
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", nameStyle.Render(f.Name), size, indexed, tags)
		}
		_ = w.Flush()
		return nil
	},
}

// formatFileSize renders a byte count the way the file manager does.
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload <path> [path...]",
	Short: "Upload files to the backend",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		staged := make(map[string]io.Reader, len(args))
		var handles []*os.File
		defer func() {
			for _, h := range handles {
				h.Close()
			}
		}()
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to stage %s: %w", path, err)
			}
			handles = append(handles, f)
			staged[filepath.Base(path)] = f
		}

		if err := newAPIClient().UploadFiles(cmd.Context(), staged); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		fmt.Printf("Uploaded %d file(s)\n", len(staged))
		return nil
	},
}

var filesRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().DeleteFile(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var filesPreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Print a preview of an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newAPIClient().PreviewFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to preview %s: %w", args[0], err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var filesIngestCmd = &cobra.Command{
	Use:   "ingest <name>",
	Short: "Index an uploaded file for retrieval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().IngestFile(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to ingest %s: %w", args[0], err)
		}
		fmt.Printf("Ingested %s\n", args[0])
		return nil
	},
}

var filesTagCmd = &cobra.Command{
	Use:   "tag <name> [tag...]",
	Short: "Replace the tag list on an uploaded file",
	Long:  `Replace the tags on a file. With no tags given, all tags are cleared.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := args[1:]
		if err := newAPIClient().SetFileTags(cmd.Context(), args[0], tags); err != nil {
			return fmt.Errorf("failed to tag %s: %w", args[0], err)
		}
		if len(tags) == 0 {
			fmt.Printf("Cleared tags on %s\n", args[0])
		} else {
			fmt.Printf("Tagged %s: %s\n", args[0], strings.Join(tags, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesUploadCmd)
	filesCmd.AddCommand(filesRmCmd)
	filesCmd.AddCommand(filesPreviewCmd)
	filesCmd.AddCommand(filesIngestCmd)
	filesCmd.AddCommand(filesTagCmd)
}
