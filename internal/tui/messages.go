package tui

import (
	"time"

	"github.com/iksnae/ktienda-chat/internal"
)

// sendResultMsg carries the outcome of one exchange. The exchange records
// the session it was issued under, so results for an abandoned thread are
// dropped by the thread itself.
type sendResultMsg struct {
	ex   *internal.Exchange
	resp *internal.ChatResponse
	err  error
}

// sessionsRefreshedMsg reports a completed session list refresh
type sessionsRefreshedMsg struct {
	err error
}

// nameResolvedMsg carries the header name for sessionID
type nameResolvedMsg struct {
	sessionID string
	name      string
}

// historyLoadedMsg carries backend history for sessionID
type historyLoadedMsg struct {
	sessionID string
	messages  []internal.Message
	err       error
}

// deleteDoneMsg reports a confirmed delete
type deleteDoneMsg struct {
	sessionID string
	err       error
}

type sidebarTickMsg time.Time

type nameTickMsg time.Time
