package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/spf13/cobra"
)

var (
	sendSession string
	sendJSON    bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send one message and print the reply",
	Long: `Send one message to the assistant in the active conversation (or the one
given with --session) and print the reply together with any tools it used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		sessionID := sendSession
		if sessionID == "" {
			sessionID = s.store.Active()
		}

		thread := internal.NewThread(sessionID)
		var (
			ex       *internal.Exchange
			accepted bool
		)
		err = internal.ShowProgress(cmd.Context(), "Pensando...", func() error {
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()
			ex, accepted = thread.Send(ctx, s.client, strings.Join(args, " "))
			return nil
		})
		if err != nil {
			return err
		}
		if !accepted {
			return fmt.Errorf("message must not be empty")
		}

		messages := thread.Messages()
		reply := messages[len(messages)-1]
		out := cmd.OutOrStdout()
		if sendJSON {
			data, jsonErr := json.MarshalIndent(struct {
				SessionID string `json:"session_id"`
				internal.Message
			}{SessionID: sessionID, Message: reply}, "", "  ")
			if jsonErr != nil {
				return fmt.Errorf("failed to marshal reply: %w", jsonErr)
			}
			fmt.Fprintln(out, string(data))
		} else {
			md := internal.NewMarkdownRenderer(80, "")
			fmt.Fprintln(out, internal.RenderMessage(reply, md, true))
		}

		if ex.State == internal.ExchangeFailed {
			return fmt.Errorf("failed to send message: %w", ex.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendSession, "session", "", "Conversation to send to (default: the active one)")
	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "Print the reply as JSON")
}
