package internal

import (
	"context"
	"strings"
	"sync"
)

// FallbackReply is shown in place of an assistant reply when a send fails
const FallbackReply = "Lo siento, algo salió mal. Por favor, intenta de nuevo."

// ExchangeState is the phase of a single user turn
type ExchangeState int

const (
	ExchangePending ExchangeState = iota
	ExchangeResolved
	ExchangeFailed
)

func (s ExchangeState) String() string {
	switch s {
	case ExchangePending:
		return "pending"
	case ExchangeResolved:
		return "resolved"
	case ExchangeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Exchange is one user turn: the message sent and, once known, its outcome
type Exchange struct {
	SessionID string
	Text      string
	State     ExchangeState
	Err       error
}

// Thread is the ordered, in-memory message list of one session. A thread is
// bound to its session id for life; switching sessions means a new Thread.
type Thread struct {
	mu        sync.Mutex
	sessionID string
	messages  []Message
	inflight  *Exchange
}

// NewThread creates an empty thread for sessionID
func NewThread(sessionID string) *Thread {
	return &Thread{sessionID: sessionID}
}

// SessionID returns the session this thread belongs to
func (t *Thread) SessionID() string {
	return t.sessionID
}

// Messages returns a copy of the thread
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Sending reports whether an exchange is in flight
func (t *Thread) Sending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight != nil
}

// Begin appends the user message and starts an exchange. It is a no-op
// (returning false) for blank text or while another exchange is in flight.
func (t *Thread) Begin(text string) (*Exchange, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight != nil {
		return nil, false
	}

	t.messages = append(t.messages, Message{Role: RoleUser, Content: text})
	ex := &Exchange{SessionID: t.sessionID, Text: text, State: ExchangePending}
	t.inflight = ex
	return ex, true
}

// Complete resolves ex with the backend reply. It returns false, leaving
// the thread untouched, when ex is not this thread's in-flight exchange.
func (t *Thread) Complete(ex *Exchange, resp *ChatResponse) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ownsLocked(ex) {
		LogDebug("Dropping stale reply for session %s", ex.SessionID)
		return false
	}

	msg := Message{Role: RoleAssistant, Content: resp.Response}
	if len(resp.ToolCalls) > 0 {
		msg.ToolCalls = make([]ToolCall, len(resp.ToolCalls))
		copy(msg.ToolCalls, resp.ToolCalls)
	}
	t.messages = append(t.messages, msg)
	ex.State = ExchangeResolved
	t.inflight = nil
	return true
}

// Fail resolves ex with the fixed fallback reply. The error is logged, not
// shown. Stale exchanges are dropped as in Complete.
func (t *Thread) Fail(ex *Exchange, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ownsLocked(ex) {
		LogDebug("Dropping stale failure for session %s: %v", ex.SessionID, err)
		return false
	}

	LogError("Failed to send message: %v", err)
	t.messages = append(t.messages, Message{Role: RoleAssistant, Content: FallbackReply})
	ex.State = ExchangeFailed
	ex.Err = err
	t.inflight = nil
	return true
}

// Send runs a whole exchange synchronously and returns it once resolved or
// failed. It returns false when the message was rejected by Begin.
func (t *Thread) Send(ctx context.Context, sender MessageSender, text string) (*Exchange, bool) {
	ex, ok := t.Begin(text)
	if !ok {
		return nil, false
	}
	resp, err := sender.SendMessage(ctx, ex.SessionID, ex.Text)
	if err != nil {
		t.Fail(ex, err)
		return ex, true
	}
	t.Complete(ex, resp)
	return ex, true
}

// Seed fills an empty, idle thread with backend history
func (t *Thread) Seed(messages []Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) > 0 || t.inflight != nil {
		return false
	}
	t.messages = append(t.messages, messages...)
	return true
}

func (t *Thread) ownsLocked(ex *Exchange) bool {
	return ex != nil && t.inflight == ex && ex.SessionID == t.sessionID
}
