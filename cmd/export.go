package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/iksnae/ktienda-chat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a conversation to a file",
	Long: `Export a conversation's history to jsonl, md, yaml or json.

Without a session id the active conversation is exported. Without --out the
transcript is written to standard output.
Use 'ktienda-chat sessions list' to see available session IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		id := s.store.Active()
		if len(args) == 1 {
			id = args[0]
		}

		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		transcript, ok, err := s.transcript(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("session not found: %s (use 'ktienda-chat sessions list' to see available sessions)", id)
		}

		if err := s.store.RefreshSessionList(ctx); err == nil {
			for _, sess := range s.store.Sessions() {
				if sess.ID == id {
					transcript.Name = sess.DisplayName()
				}
			}
		}

		if outputDir == "" {
			if err := exporter.Export(transcript, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "-", Err: err}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", filepath.Base(id), exporter.Extension()))

		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %s to %s", id, path), func() error {
			file, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := exporter.Export(transcript, file); err != nil {
				_ = file.Close()
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			return file.Close()
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d message(s) written to %s", len(transcript.Messages), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default: standard output)")
}
