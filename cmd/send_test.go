package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/iksnae/ktienda-chat/internal"
	"github.com/iksnae/ktienda-chat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.SetReply(testutil.FakeReply{
		Response: "Sí, tenemos 12 unidades de camisetas en talle M.",
		ToolCalls: []map[string]interface{}{
			{"tool": "check_stock", "input": map[string]interface{}{"product": "camiseta", "size": "M"}, "result": map[string]interface{}{"qty": 12}},
		},
	})

	out, err := env.run("send", "¿tienen", "camisetas", "en", "M?")
	require.NoError(t, err)
	assert.Contains(t, out, "K-Tienda")
	assert.Contains(t, out, "12 unidades")
	assert.Contains(t, out, "Herramienta usada: check_stock")
	assert.Contains(t, out, "Entrada:")
	assert.Equal(t, 1, env.backend.Calls(testutil.RouteChat))

	// the message went to the active session
	ids := env.backend.SessionIDs()
	require.Len(t, ids, 1)
	assert.True(t, strings.HasPrefix(ids[0], "session_"))
}

func TestSendCommand_JSON(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("send", "--session", "session_42", "--json", "hola")
	require.NoError(t, err)

	var reply struct {
		SessionID string `json:"session_id"`
		internal.Message
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, "session_42", reply.SessionID)
	assert.Equal(t, internal.RoleAssistant, reply.Role)
	assert.Equal(t, "Recibido: hola", reply.Content)
	assert.True(t, env.backend.HasSession("session_42"))
}

func TestSendCommand_FailurePrintsApology(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.FailWith(testutil.RouteChat, http.StatusInternalServerError)

	out, err := env.run("send", "hola")
	require.Error(t, err)
	assert.Contains(t, out, internal.FallbackReply)
	assert.NotContains(t, out, "500", "the raw error is not shown in the reply")
}

func TestSendCommand_BlankMessage(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("send", "   ")
	assert.Error(t, err)
	assert.Zero(t, env.backend.Calls(testutil.RouteChat))
}

func TestSendCommand_RequiresMessage(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("send")
	assert.Error(t, err)
}
