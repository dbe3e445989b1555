package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ktienda-chat/internal"
	"github.com/spf13/cobra"
)

var (
	sessionsJSON     bool
	deleteYes        bool
	watchInterval    time.Duration
	historyRawOutput bool
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// sessionsCmd groups the conversation management commands
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Manage conversations",
	Long:    `List, create, switch, clear and delete conversations.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations known to the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		if err := s.store.RefreshSessionList(ctx); err != nil {
			// the snapshot from the last successful refresh is still shown
			internal.PrintWarning("Could not reach the backend, showing the last known list")
		}

		sessions := s.store.Sessions()
		if sessionsJSON {
			return writeJSON(cmd.OutOrStdout(), sessions)
		}
		displaySessions(cmd.OutOrStdout(), sessions, s.store.Active())
		return nil
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new conversation and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		id := s.store.CreateSession()
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use <session-id>",
	Short: "Make a conversation active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.SelectSession(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active conversation: %s\n", internal.DisplayName(args[0]))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a conversation",
	Long: `Delete a conversation on the backend. Without --yes you are asked to
confirm. Deleting the active conversation starts a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var flow internal.DeleteFlow
		flow.Request(args[0])

		if !deleteYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), args[0]) {
			flow.Cancel()
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}

		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		if err := flow.Confirm(ctx, s.store); err != nil {
			if internal.IsNotFound(err) {
				return fmt.Errorf("session not found: %s (use 'ktienda-chat sessions list' to see available sessions)", args[0])
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Deleted %s\n", args[0])
		fmt.Fprintf(out, "Active conversation: %s\n", s.store.Active())
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Reset a conversation's history on the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		if err := s.store.ClearSession(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", args[0])
		return nil
	},
}

var sessionsHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show a conversation's messages",
	Long:  `Show the messages the backend holds for a conversation (default: the active one).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "%s has no messages yet\n", internal.DisplayName(id))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%d messages)", transcript.Name, len(transcript.Messages))))
		fmt.Fprintln(out)

		var md *internal.MarkdownRenderer
		if !historyRawOutput {
			md = internal.NewMarkdownRenderer(80, "")
		}
		for _, msg := range transcript.Messages {
			fmt.Fprintln(out, internal.RenderMessage(msg, md, false))
			fmt.Fprintln(out)
		}
		return nil
	},
}

var sessionsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the conversation list every interval until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		interval := cfg.PollInterval
		if cmd.Flags().Changed("interval") {
			interval = watchInterval
		}
		if interval <= 0 {
			return fmt.Errorf("interval must be positive, got %s", interval)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		poller := &internal.Poller{
			Interval: interval,
			Fn: func(ctx context.Context) error {
				reqCtx, cancel := requestContext(ctx)
				defer cancel()
				if err := s.store.RefreshSessionList(reqCtx); err != nil {
					return err
				}
				fmt.Fprintln(out, idStyle.Render(time.Now().Format("15:04:05")))
				displaySessions(out, s.store.Sessions(), s.store.Active())
				return nil
			},
			OnError: func(err error) {
				internal.LogWarn("Refresh failed, keeping the previous list: %v", err)
			},
		}

		err = poller.Run(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	},
}

func displaySessions(w io.Writer, sessions []internal.Session, active string) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, headerStyle.Render("📋 No hay conversaciones activas"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, " \t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t")
	for _, sess := range sessions {
		marker := " "
		name := sess.DisplayName()
		if sess.ID == active {
			marker = activeStyle.Render("*")
			name = activeStyle.Render(name)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t\n", marker, idStyle.Render(sess.ID), name)
	}
	_ = tw.Flush()
}

// confirm asks on out and reads the answer from in
func confirm(in io.Reader, out io.Writer, id string) bool {
	fmt.Fprintf(out, "¿Estás seguro de que quieres eliminar %s? [y/N] ", internal.DisplayName(id))
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsNewCmd, sessionsUseCmd, sessionsDeleteCmd,
		sessionsClearCmd, sessionsHistoryCmd, sessionsWatchCmd)

	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "Print the list as JSON")
	sessionsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
	sessionsHistoryCmd.Flags().BoolVar(&historyRawOutput, "raw", false, "Print replies without markdown rendering")
	sessionsWatchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second, "Refresh interval (default from KTIENDA_POLL_INTERVAL)")
}
