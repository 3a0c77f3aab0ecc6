package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	exportRemote bool
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session to a file",
	Long: `Export a session's conversation.

By default the messages are fetched and formatted locally (txt, md or
json). With --remote the backend's own export endpoint is used instead,
which supports txt and md.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		client := newAPIClient()

		if exportRemote {
			data, err := client.ExportSession(cmd.Context(), id, exportFormat)
			if err != nil {
				return fmt.Errorf("remote export failed: %w", err)
			}
			return writeExport(data, defaultExportName(id, exportFormat))
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		list, err := client.ListSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		var session *internal.Session
		for i := range list.Sessions {
			if list.Sessions[i].ID == id {
				session = &list.Sessions[i]
				break
			}
		}
		if session == nil {
			return fmt.Errorf("session %d not found", id)
		}

		msgs, err := client.Messages(cmd.Context(), id, 0)
		if err != nil {
			return fmt.Errorf("failed to load messages: %w", err)
		}

		path := exportOutput
		if path == "" {
			path = defaultExportName(id, exporter.Extension())
		}
		f, err := os.Create(path)
		if err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}
		defer f.Close()

		if err := exporter.Export(session, msgs, f); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}
		fmt.Printf("Exported session %d to %s\n", id, path)
		return nil
	},
}

func defaultExportName(id int64, ext string) string {
	return fmt.Sprintf("session_%d.%s", id, ext)
}

func writeExport(data []byte, fallback string) error {
	path := exportOutput
	if path == "" {
		path = fallback
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format (txt, md, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().BoolVar(&exportRemote, "remote", false, "Use the backend's export endpoint (txt, md)")
}
