package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the client can reach the backend and its local state",
	Long: `Check the health of ktienda-chat by verifying:
  • Configuration
  • Local state directory and database
  • Backend reachability (session list)
  • Tool catalogue

This command is useful for debugging connection issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 K-Tienda Chat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		if verbose {
			fmt.Fprintf(out, "   Backend: %s\n", cfg.APIURL)
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Timeout)
			fmt.Fprintf(out, "   Poll interval: %s\n", cfg.PollInterval)
		}
		fmt.Fprintln(out)

		// Step 2: Local state
		fmt.Fprintln(out, infoStyle.Render("Step 2: Opening local state..."))
		s, err := openSession()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open local state:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer s.Close()
		fmt.Fprintln(out, successStyle.Render("✅ State database ready"))
		if verbose {
			fmt.Fprintf(out, "   Database: %s\n", s.paths.DatabasePath())
			fmt.Fprintf(out, "   Active session: %s\n", s.store.Active())
		}
		fmt.Fprintln(out)

		// Step 3: Backend
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		ctx, cancel := requestContext(cmd.Context())
		defer cancel()
		if err := s.store.RefreshSessionList(ctx); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
			fmt.Fprintln(out)
			printSummary(out, false, 0, 0)
			return fmt.Errorf("health check failed: backend unreachable at %s", cfg.APIURL)
		}
		sessionCount := len(s.store.Sessions())
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend reachable, %d session(s)", sessionCount)))
		fmt.Fprintln(out)

		// Step 4: Tools
		fmt.Fprintln(out, infoStyle.Render("Step 4: Loading tool catalogue..."))
		toolCount := 0
		tools, err := s.client.Tools(ctx)
		if err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Tool catalogue unavailable:"), err)
		} else {
			toolCount = len(tools.Tools)
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %d tool(s) available", toolCount)))
			if verbose {
				for _, tool := range tools.Tools {
					fmt.Fprintf(out, "   • %s\n", tool.Name())
				}
			}
		}
		fmt.Fprintln(out)

		printSummary(out, true, sessionCount, toolCount)
		return nil
	},
}

func printSummary(out io.Writer, reachable bool, sessions, tools int) {
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)
	if !reachable {
		fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
		fmt.Fprintln(out, "   • The backend did not answer")
		fmt.Fprintln(out, "   • Check --api-url or KTIENDA_API_URL")
		return
	}
	fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d found", sessions)))
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Tools: %d available", tools)))
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
