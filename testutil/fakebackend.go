package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Route names used for failure injection and call counting
const (
	RouteChat     = "chat"
	RouteSessions = "sessions"
	RouteHistory  = "history"
	RouteDelete   = "delete"
	RouteClear    = "clear"
	RouteTools    = "tools"
)

// FakeReply is what POST /chat answers with
type FakeReply struct {
	Response  string
	ToolCalls []map[string]interface{}
}

type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type fakeSession struct {
	name    string
	history []historyEntry
}

// FakeBackend is an in-process stand-in for the chat backend
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	order    []string
	sessions map[string]*fakeSession
	reply    func(sessionID, message string) FakeReply
	failures map[string]int
	delays   map[string]time.Duration
	calls    map[string]int
	bare     bool
}

// NewFakeBackend starts a fake backend that is shut down with the test
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		sessions: make(map[string]*fakeSession),
		failures: make(map[string]int),
		delays:   make(map[string]time.Duration),
		calls:    make(map[string]int),
		reply: func(sessionID, message string) FakeReply {
			return FakeReply{Response: "Recibido: " + message}
		},
	}

	r := chi.NewRouter()
	r.Post("/chat", f.wrap(RouteChat, f.handleChat))
	r.Get("/sessions", f.wrap(RouteSessions, f.handleSessions))
	r.Get("/sessions/{id}/history", f.wrap(RouteHistory, f.handleHistory))
	r.Delete("/sessions/{id}", f.wrap(RouteDelete, f.handleDelete))
	r.Post("/clear", f.wrap(RouteClear, f.handleClear))
	r.Get("/tools", f.wrap(RouteTools, f.handleTools))

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake backend
func (f *FakeBackend) URL() string {
	return f.Server.URL
}

// AddSession registers a session with an optional display name
func (f *FakeBackend) AddSession(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureLocked(id).name = name
}

// AddHistory appends a message to a session's backend history
func (f *FakeBackend) AddHistory(id, role, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.ensureLocked(id)
	s.history = append(s.history, historyEntry{Role: role, Content: content})
}

// SetReply fixes the answer to every POST /chat
func (f *FakeBackend) SetReply(reply FakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = func(string, string) FakeReply { return reply }
}

// SetReplyFunc computes the answer to POST /chat per request
func (f *FakeBackend) SetReplyFunc(fn func(sessionID, message string) FakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = fn
}

// FailWith makes route answer with status until ClearFailure
func (f *FakeBackend) FailWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = status
}

// ClearFailure restores normal behaviour of route
func (f *FakeBackend) ClearFailure(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, route)
}

// SetDelay holds every request to route for d (or until the client gives up)
func (f *FakeBackend) SetDelay(route string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[route] = d
}

// ListAsStrings makes GET /sessions return bare ids like the reference backend
func (f *FakeBackend) ListAsStrings(bare bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bare = bare
}

// Calls returns how many requests route has received
func (f *FakeBackend) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// SessionIDs returns the ids the backend currently holds, in creation order
func (f *FakeBackend) SessionIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// HasSession reports whether the backend holds id
func (f *FakeBackend) HasSession(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[id]
	return ok
}

func (f *FakeBackend) ensureLocked(id string) *fakeSession {
	s, ok := f.sessions[id]
	if !ok {
		s = &fakeSession{}
		f.sessions[id] = s
		f.order = append(f.order, id)
	}
	return s
}

func (f *FakeBackend) removeLocked(id string) bool {
	if _, ok := f.sessions[id]; !ok {
		return false
	}
	delete(f.sessions, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

func (f *FakeBackend) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[route]++
		status, failing := f.failures[route]
		delay := f.delays[route]
		f.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			http.Error(w, `{"detail":"injected failure"}`, status)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *FakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	reply := f.reply(req.SessionID, req.Message)
	s := f.ensureLocked(req.SessionID)
	s.history = append(s.history,
		historyEntry{Role: "user", Content: req.Message},
		historyEntry{Role: "assistant", Content: reply.Response},
	)
	f.mu.Unlock()

	body := map[string]interface{}{
		"session_id": req.SessionID,
		"response":   reply.Response,
	}
	if len(reply.ToolCalls) > 0 {
		body["tool_calls"] = reply.ToolCalls
	}
	writeJSON(w, http.StatusOK, body)
}

func (f *FakeBackend) handleSessions(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sessions []interface{}
	for _, id := range f.order {
		if f.bare {
			sessions = append(sessions, id)
			continue
		}
		sessions = append(sessions, map[string]string{"id": id, "name": f.sessions[id].name})
	}
	if sessions == nil {
		sessions = []interface{}{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (f *FakeBackend) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	defer f.mu.Unlock()
	history := []historyEntry{}
	s, exists := f.sessions[id]
	if exists {
		history = append(history, s.history...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"history":    history,
		"exists":     exists,
	})
}

func (f *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	removed := f.removeLocked(id)
	f.mu.Unlock()

	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Sesión no encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Sesión " + id + " eliminada", "success": true})
}

func (f *FakeBackend) handleClear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	f.removeLocked(req.SessionID)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (f *FakeBackend) handleTools(w http.ResponseWriter, r *http.Request) {
	tools := []map[string]interface{}{
		{
			"name":        "consultar_stock",
			"description": "Consulta el stock disponible de un producto en un talle",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"producto": map[string]string{"type": "string", "description": "Nombre del producto"},
					"talle":    map[string]string{"type": "string", "description": "Talle"},
				},
				"required": []string{"producto", "talle"},
			},
		},
		{
			"name":        "rastrear_pedido",
			"description": "Devuelve el estado de un pedido",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id_orden": map[string]string{"type": "string", "description": "ID de la orden"},
				},
				"required": []string{"id_orden"},
			},
		},
	}
	gemini := make([]map[string]interface{}, 0, len(tools))
	for _, tool := range tools {
		gemini = append(gemini, map[string]interface{}{
			"name":        tool["name"],
			"description": tool["description"],
			"parameters":  map[string]string{"type": "OBJECT"},
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools":         tools,
		"gemini_format": gemini,
		"count":         len(tools),
	})
}
