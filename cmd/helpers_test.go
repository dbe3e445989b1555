package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iksnae/ktienda-chat/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliEnv runs commands against a fake backend with a private state dir
type cliEnv struct {
	t        *testing.T
	backend  *testutil.FakeBackend
	stateDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, name := range []string{"KTIENDA_API_URL", "KTIENDA_STATE_DIR", "KTIENDA_LOG_FILE", "KTIENDA_RELOAD_HISTORY"} {
		t.Setenv(name, "")
	}
	return &cliEnv{
		t:        t,
		backend:  testutil.NewFakeBackend(t),
		stateDir: testutil.CreateTempDir(t),
	}
}

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return e.runWithInput(context.Background(), "", args...)
}

func (e *cliEnv) runWithInput(ctx context.Context, input string, args ...string) (string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	full := append([]string{"--api-url", e.backend.URL(), "--state-dir", e.stateDir, "--env-file", ""}, args...)
	rootCmd.SetArgs(full)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), err
}

// resetFlags restores every flag to its default; cobra commands are package
// globals and keep parsed values between executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	c, _, err := rootCmd.Find(path)
	if err != nil || c == rootCmd {
		t.Fatalf("command %v not found: %v", path, err)
	}
	return c
}
