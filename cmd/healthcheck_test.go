package cmd

import (
	"net/http"
	"testing"

	"github.com/iksnae/ktienda-chat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheckCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.AddSession("session_1", "")

	out, err := env.run("healthcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Health check passed")
	assert.Contains(t, out, "Sessions: 1 found")
	assert.Contains(t, out, "Tools: 2 available")
}

func TestHealthcheckCommand_BackendDown(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.Server.Close()

	out, err := env.run("healthcheck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
	assert.Contains(t, out, "Health check failed")
}

func TestHealthcheckCommand_ToolsUnavailable(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.FailWith(testutil.RouteTools, http.StatusInternalServerError)

	out, err := env.run("healthcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Tool catalogue unavailable")
	assert.Contains(t, out, "Tools: 0 available")
}
