package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/ktienda-chat/internal"
)

func (m Model) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) sendCmd(ex *internal.Exchange) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		resp, err := sender.SendMessage(ctx, ex.SessionID, ex.Text)
		return sendResultMsg{ex: ex, resp: resp, err: err}
	}
}

func (m Model) refreshSessionsCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		return sessionsRefreshedMsg{err: store.RefreshSessionList(ctx)}
	}
}

func (m Model) resolveNameCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		id := store.Active()
		return nameResolvedMsg{sessionID: id, name: store.ResolveActiveName(ctx)}
	}
}

func (m Model) loadHistoryCmd(sessionID string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		resp, err := store.History(ctx, sessionID)
		if err != nil {
			return historyLoadedMsg{sessionID: sessionID, err: err}
		}
		return historyLoadedMsg{sessionID: sessionID, messages: resp.Messages()}
	}
}

// confirmDeleteCmd runs the confirmation on a copy of the flow; the model
// has already returned its own flow to idle.
func (m Model) confirmDeleteCmd(flow internal.DeleteFlow) tea.Cmd {
	store := m.store
	id, _ := flow.Pending()
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()
		return deleteDoneMsg{sessionID: id, err: flow.Confirm(ctx, store)}
	}
}

func sidebarTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return sidebarTickMsg(t) })
}

func nameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return nameTickMsg(t) })
}
