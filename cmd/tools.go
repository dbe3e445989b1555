package cmd

import (
	"fmt"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/spf13/cobra"
)

var (
	toolsGemini bool
	toolsJSON   bool
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the assistant can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := internal.NewClient(cfg.APIURL, cfg.Timeout)

		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		resp, err := client.Tools(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tools: %w", err)
		}

		out := cmd.OutOrStdout()
		if toolsGemini {
			return writeJSON(out, resp.GeminiFormat)
		}
		if toolsJSON {
			return writeJSON(out, resp.Tools)
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔧 %d tool(s)", len(resp.Tools))))
		fmt.Fprintln(out)
		for _, tool := range resp.Tools {
			fmt.Fprintf(out, "%s\n  %s\n", titleStyle.Render(tool.Name()), tool.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().BoolVar(&toolsGemini, "gemini", false, "Print the catalogue in Gemini function-declaration format")
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print the catalogue as JSON")
}
