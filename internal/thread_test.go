package internal

import (
	"context"
	"errors"
	"testing"
)

type stubSender struct {
	resp  *ChatResponse
	err   error
	calls int
	// during runs while the request is "in flight"
	during func()
}

func (s *stubSender) SendMessage(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestThread_SendSuccess(t *testing.T) {
	thread := NewThread("session_1700000000")
	sender := &stubSender{resp: CreateTestChatResponse("session_1700000000", "Sí, tenemos 12 unidades.",
		CreateTestToolCall("check_stock", "camisetas", 12))}

	if _, ok := thread.Send(context.Background(), sender, "¿tienen stock de camisetas?"); !ok {
		t.Fatal("Send() = false, want true")
	}

	msgs := thread.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "¿tienen stock de camisetas?" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != "Sí, tenemos 12 unidades." {
		t.Errorf("second message = %+v", msgs[1])
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Tool != "check_stock" {
		t.Errorf("tool calls = %+v, want one check_stock", msgs[1].ToolCalls)
	}
	if thread.Sending() {
		t.Error("Sending() should be false after the exchange resolves")
	}
}

func TestThread_SendFailureAppendsFallback(t *testing.T) {
	thread := NewThread("session_1")
	sender := &stubSender{err: errors.New("connection refused")}

	thread.Send(context.Background(), sender, "hola")

	msgs := thread.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(msgs))
	}
	if msgs[1].Content != FallbackReply {
		t.Errorf("fallback content = %q, want %q", msgs[1].Content, FallbackReply)
	}
	if len(msgs[1].ToolCalls) != 0 {
		t.Errorf("fallback should carry no tool calls")
	}
}

func TestThread_BlankInputIsNoop(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "   \r\n  "}
	for _, input := range inputs {
		thread := NewThread("session_1")
		sender := &stubSender{resp: CreateTestChatResponse("session_1", "x")}

		if _, ok := thread.Send(context.Background(), sender, input); ok {
			t.Errorf("Send(%q) = true, want false", input)
		}
		if thread.Len() != 0 {
			t.Errorf("Send(%q) changed thread length to %d", input, thread.Len())
		}
		if sender.calls != 0 {
			t.Errorf("Send(%q) reached the backend", input)
		}
	}
}

func TestThread_TrimsInput(t *testing.T) {
	thread := NewThread("session_1")
	ex, ok := thread.Begin("  hola  ")
	if !ok {
		t.Fatal("Begin() = false")
	}
	if ex.Text != "hola" || thread.Messages()[0].Content != "hola" {
		t.Errorf("text not trimmed: %q", ex.Text)
	}
}

func TestThread_SecondSendWhileInFlightIsNoop(t *testing.T) {
	thread := NewThread("session_1")
	var nested bool
	sender := &stubSender{resp: CreateTestChatResponse("session_1", "ok")}
	sender.during = func() {
		_, nested = thread.Send(context.Background(), sender, "otra vez")
		if got := thread.Len(); got != 1 {
			t.Errorf("thread length during flight = %d, want 1", got)
		}
	}

	thread.Send(context.Background(), sender, "hola")

	if nested {
		t.Error("nested Send() = true, want false")
	}
	if sender.calls != 1 {
		t.Errorf("backend calls = %d, want 1", sender.calls)
	}
	if thread.Len() != 2 {
		t.Errorf("final length = %d, want 2", thread.Len())
	}
}

func TestThread_BeginPhases(t *testing.T) {
	thread := NewThread("session_1")

	ex, ok := thread.Begin("hola")
	if !ok {
		t.Fatal("Begin() = false")
	}
	if ex.State != ExchangePending || !thread.Sending() {
		t.Fatalf("exchange state = %s, Sending = %v", ex.State, thread.Sending())
	}
	if thread.Len() != 1 {
		t.Fatalf("user message should be appended immediately, len = %d", thread.Len())
	}

	if _, ok := thread.Begin("otra"); ok {
		t.Error("Begin() while pending should be rejected")
	}

	if !thread.Complete(ex, CreateTestChatResponse("session_1", "listo")) {
		t.Fatal("Complete() = false")
	}
	if ex.State != ExchangeResolved {
		t.Errorf("state = %s, want resolved", ex.State)
	}
	if thread.Complete(ex, CreateTestChatResponse("session_1", "duplicado")) {
		t.Error("completing an exchange twice should be rejected")
	}
	if thread.Len() != 2 {
		t.Errorf("len = %d, want 2", thread.Len())
	}
}

func TestThread_StaleExchangeDropped(t *testing.T) {
	old := NewThread("session_1")
	ex, _ := old.Begin("hola")

	// the user switches sessions: a new thread replaces the old one
	current := NewThread("session_2")

	if current.Complete(ex, CreateTestChatResponse("session_1", "tarde")) {
		t.Error("Complete() with a foreign exchange = true, want false")
	}
	if current.Fail(ex, errors.New("late")) {
		t.Error("Fail() with a foreign exchange = true, want false")
	}
	if current.Len() != 0 {
		t.Errorf("new thread length = %d, want 0", current.Len())
	}
}

func TestThread_Seed(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "¡Hola!"},
	}

	thread := NewThread("session_1")
	if !thread.Seed(history) {
		t.Fatal("Seed() on empty thread = false")
	}
	if thread.Len() != 2 {
		t.Errorf("len = %d, want 2", thread.Len())
	}
	if thread.Seed(history) {
		t.Error("Seed() on non-empty thread should be rejected")
	}

	busy := NewThread("session_2")
	busy.Begin("hola")
	if busy.Seed(history) {
		t.Error("Seed() while sending should be rejected")
	}
}

func TestThread_SendReturnsFinishedExchange(t *testing.T) {
	ok := NewThread("session_42")
	ex, accepted := ok.Send(context.Background(), &stubSender{resp: CreateTestChatResponse("session_42", "ok")}, "hola")
	if !accepted || ex == nil {
		t.Fatal("Send() rejected a valid message")
	}
	if ex.State != ExchangeResolved || ex.Err != nil {
		t.Errorf("exchange = %v / %v, want resolved without error", ex.State, ex.Err)
	}

	failing := NewThread("session_42")
	sendErr := errors.New("connection refused")
	ex, _ = failing.Send(context.Background(), &stubSender{err: sendErr}, "hola")
	if ex.State != ExchangeFailed || !errors.Is(ex.Err, sendErr) {
		t.Errorf("exchange = %v / %v, want failed with %v", ex.State, ex.Err, sendErr)
	}
}

func TestExchangeState_String(t *testing.T) {
	tests := map[ExchangeState]string{
		ExchangePending:   "pending",
		ExchangeResolved:  "resolved",
		ExchangeFailed:    "failed",
		ExchangeState(99): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
