package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/spf13/cobra"
)

var stateReset bool

// stateCmd represents the state command
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show where local state lives and what it holds",
	Long: `Show the state directory, its files and the stored key/value pairs.

With --reset the saved session list snapshot and the cached transcripts are
removed; the active session id is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		snapshot := internal.NewSnapshotManager(s.paths.SnapshotPath(), s.client.BaseURL())
		transcripts := internal.NewTranscriptCache(s.paths.HistoryDir(), s.client.BaseURL())
		if stateReset {
			if err := snapshot.Clear(); err != nil {
				return fmt.Errorf("failed to remove snapshot: %w", err)
			}
			if err := transcripts.ClearCache(); err != nil {
				return fmt.Errorf("failed to remove cached transcripts: %w", err)
			}
			internal.PrintSuccess("Session list snapshot and cached transcripts removed")
		}

		fmt.Fprintln(out, headerStyle.Render("📁 Local state"))
		fmt.Fprintf(out, "  Directory: %s\n", s.paths.BaseDir)
		fmt.Fprintf(out, "  Database:  %s\n", s.paths.DatabasePath())
		fmt.Fprintf(out, "  Snapshot:  %s\n", s.paths.SnapshotPath())
		fmt.Fprintf(out, "  History:   %s\n", s.paths.HistoryDir())
		fmt.Fprintf(out, "  Log file:  %s\n", cfg.LogPath(s.paths))
		fmt.Fprintln(out)

		entries, err := s.state.Entries()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, titleStyle.Render("Key")+"\t"+titleStyle.Render("Value")+"\t")
		for _, entry := range entries {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t\n", entry.Key, entry.Value)
		}
		_ = tw.Flush()

		snap, err := snapshot.Load()
		if err != nil {
			internal.LogWarn("Failed to read snapshot: %v", err)
		}
		fmt.Fprintln(out)
		if snap == nil {
			fmt.Fprintln(out, idStyle.Render("No session list snapshot"))
		} else {
			fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("Snapshot: %d session(s) from %s", len(snap.Sessions), snap.FetchedAt.Local().Format("2006-01-02 15:04:05"))))
		}

		index, err := transcripts.LoadIndex()
		if err != nil {
			internal.LogWarn("Failed to read transcript index: %v", err)
		}
		if index == nil || !transcripts.IsCacheValid() {
			fmt.Fprintln(out, idStyle.Render("No cached transcripts"))
		} else {
			fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("Cached transcripts: %d", len(index.Transcripts))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateReset, "reset", false, "Remove the saved session list snapshot")
}
