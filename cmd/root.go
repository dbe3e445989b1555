package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	apiURL   string
	stateDir string
	timeout  time.Duration
	envFile  string
	version  string = "dev"
	commit   string = "unknown"
	date     string = "unknown"

	// cfg is resolved once per invocation in PersistentPreRunE
	cfg *internal.Config
)

// interactiveAnnotation marks commands that own the terminal; their log
// output goes to the log file only
const interactiveAnnotation = "interactive"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ktienda-chat",
	Short: "Terminal chat client for the K-Tienda support assistant",
	Long: `A terminal client for the K-Tienda retail support assistant.

Chat with the assistant, keep several conversations side by side and see
which tools (stock lookup, order tracking) it used to answer you.

Quick Start:
  ktienda-chat                              # Open the interactive chat
  ktienda-chat send "¿tienen camisetas M?"  # One-shot question
  ktienda-chat sessions list                # List conversations
  ktienda-chat export <session-id> -f md    # Export a conversation

The backend address comes from --api-url, KTIENDA_API_URL or a .env file.`,
	Version:     fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Annotations: map[string]string{interactiveAnnotation: "true"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.SyncLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and starts logging
func setup(cmd *cobra.Command) error {
	internal.SetVerbose(verbose)

	c, err := internal.LoadConfig(envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.APIURL = apiURL
	}
	if flags.Changed("state-dir") {
		c.StateDir = stateDir
	}
	if flags.Changed("timeout") {
		c.Timeout = timeout
	}
	if err := c.Validate(); err != nil {
		return err
	}

	paths, err := c.Paths()
	if err != nil {
		return fmt.Errorf("failed to resolve state directory: %w", err)
	}
	opts := internal.LogOptions{File: c.LogPath(paths)}
	if cmd.Annotations[interactiveAnnotation] != "true" {
		opts.Console = cmd.ErrOrStderr()
	}
	if err := internal.InitLogger(opts); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = c
	internal.LogDebug("Using backend %s, state in %s", cfg.APIURL, paths.BaseDir)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Chat backend base URL (default from KTIENDA_API_URL or http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for local state and logs (default ~/.ktienda-chat)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for each backend request")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file to load")

	addChatFlags(rootCmd)

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
