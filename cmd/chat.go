package cmd

import (
	"github.com/iksnae/ktienda-chat/internal"
	"github.com/iksnae/ktienda-chat/internal/tui"
	"github.com/spf13/cobra"
)

var (
	chatSession       string
	chatReloadHistory bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open the interactive chat.

The sidebar lists your conversations and refreshes every few seconds.
Keys: enter send, ctrl+n new conversation, tab switch to the sidebar,
d delete (sidebar), t show tool details (sidebar), ctrl+b hide the sidebar,
ctrl+c quit.`,
	Annotations: map[string]string{interactiveAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func addChatFlags(c *cobra.Command) {
	c.Flags().StringVar(&chatSession, "session", "", "Open this conversation instead of the last one")
	c.Flags().BoolVar(&chatReloadHistory, "reload-history", false, "Load the conversation's history from the backend when opening it")
}

func runChat(cmd *cobra.Command) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if chatSession != "" {
		if err := s.store.SelectSession(chatSession); err != nil {
			return err
		}
	}

	internal.LogInfo("Starting chat in session %s", s.store.Active())
	return tui.Run(tui.Options{
		Sender:           s.client,
		Store:            s.store,
		Timeout:          cfg.Timeout,
		PollInterval:     cfg.PollInterval,
		NamePollInterval: cfg.NamePollInterval,
		ReloadHistory:    cfg.ReloadHistory || chatReloadHistory,
		Renderer:         internal.NewMarkdownRenderer(80, ""),
	})
}

func init() {
	rootCmd.AddCommand(chatCmd)
	addChatFlags(chatCmd)
}
