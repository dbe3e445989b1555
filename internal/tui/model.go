// Package tui is the interactive chat client: a session sidebar, the message
// thread of the active session and an input line.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/ktienda-chat/internal"
)

const (
	welcomeTitle = "¡Bienvenido a K-Tienda! 👋"
	welcomeText  = "Soy tu asistente virtual. Puedo ayudarte con consultas sobre stock, productos, seguimiento de pedidos y políticas de la tienda."
	thinkingText = "Pensando..."
	emptyList    = "No hay conversaciones activas"
	newSession   = "Nueva Conversación"
	placeholder  = "Escribe tu mensaje..."
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Options configures the chat UI
type Options struct {
	Sender           internal.MessageSender
	Store            *internal.Store
	Timeout          time.Duration
	PollInterval     time.Duration
	NamePollInterval time.Duration
	ReloadHistory    bool
	// Renderer formats assistant replies; nil leaves them as plain text
	Renderer *internal.MarkdownRenderer
}

// Model is the bubbletea model of the chat client
type Model struct {
	sender        internal.MessageSender
	store         *internal.Store
	timeout       time.Duration
	pollInterval  time.Duration
	namePoll      time.Duration
	reloadHistory bool
	md            *internal.MarkdownRenderer

	thread     *internal.Thread
	generation uint64
	deleteFlow internal.DeleteFlow
	sessions   []internal.Session
	headerName string
	cursor     int

	focus       focusArea
	showSidebar bool
	expandTools bool

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	width  int
	height int
	ready  bool
}

// New creates the chat UI for the store's active session
func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(thinkingStyle),
	)

	active := opts.Store.Active()
	return Model{
		sender:        opts.Sender,
		store:         opts.Store,
		timeout:       opts.Timeout,
		pollInterval:  opts.PollInterval,
		namePoll:      opts.NamePollInterval,
		reloadHistory: opts.ReloadHistory,
		md:            opts.Renderer,
		thread:        internal.NewThread(active),
		generation:    opts.Store.Generation(),
		sessions:      opts.Store.Sessions(),
		headerName:    internal.DisplayName(active),
		showSidebar:   true,
		input:         ti,
		spinner:       sp,
		viewport:      viewport.New(80, 20),
		help:          help.New(),
	}
}

// Run starts the UI on the alternate screen and blocks until it quits
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts both refresh loops and runs each once immediately
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.refreshSessionsCmd(),
		m.resolveNameCmd(),
		sidebarTick(m.pollInterval),
		nameTick(m.namePoll),
	}
	if m.reloadHistory {
		cmds = append(cmds, m.loadHistoryCmd(m.thread.SessionID()))
	}
	return tea.Batch(cmds...)
}

// Update handles a message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if _, pending := m.deleteFlow.Pending(); pending {
			return m.updateConfirm(msg)
		}
		if key.Matches(msg, keys.NewSession) {
			m.store.CreateSession()
			cmd := m.resetThread()
			return m, cmd
		}
		if key.Matches(msg, keys.ToggleSidebar) {
			m.showSidebar = !m.showSidebar
			if !m.showSidebar {
				m.setFocus(focusInput)
			}
			m.layout()
			return m, nil
		}
		if key.Matches(msg, keys.SwitchFocus) {
			if m.focus == focusInput && m.showSidebar {
				m.setFocus(focusSidebar)
			} else {
				m.setFocus(focusInput)
			}
			return m, nil
		}
		if m.focus == focusSidebar {
			return m.updateSidebar(msg)
		}
		return m.updateInput(msg)

	case sendResultMsg:
		var applied bool
		if msg.err != nil {
			applied = m.thread.Fail(msg.ex, msg.err)
		} else {
			applied = m.thread.Complete(msg.ex, msg.resp)
		}
		if applied {
			m.expandTools = false
			m.refreshViewport()
			if m.focus == focusInput {
				cmds = append(cmds, m.input.Focus())
			}
		}

	case sessionsRefreshedMsg:
		m.sessions = m.store.Sessions()
		m.clampCursor()
		if m.store.Generation() != m.generation {
			cmds = append(cmds, m.resetThread())
		}

	case nameResolvedMsg:
		if msg.sessionID == m.store.Active() {
			m.headerName = msg.name
		}

	case historyLoadedMsg:
		if msg.err != nil {
			internal.LogWarn("Failed to load history for %s: %v", msg.sessionID, msg.err)
			break
		}
		if msg.sessionID == m.thread.SessionID() && m.thread.Seed(msg.messages) {
			m.refreshViewport()
		}

	case deleteDoneMsg:
		m.sessions = m.store.Sessions()
		m.clampCursor()
		if m.store.Generation() != m.generation {
			cmds = append(cmds, m.resetThread())
		}

	case sidebarTickMsg:
		cmds = append(cmds, m.refreshSessionsCmd(), sidebarTick(m.pollInterval))

	case nameTickMsg:
		cmds = append(cmds, m.resolveNameCmd(), nameTick(m.namePoll))

	case spinner.TickMsg:
		if m.thread.Sending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport()
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		flow := m.deleteFlow
		m.deleteFlow.Cancel()
		return m, m.confirmDeleteCmd(flow)
	case key.Matches(msg, keys.Cancel):
		m.deleteFlow.Cancel()
	}
	return m, nil
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		if len(m.sessions) == 0 {
			return m, nil
		}
		id := m.sessions[m.cursor].ID
		if id == m.store.Active() {
			m.setFocus(focusInput)
			return m, nil
		}
		if err := m.store.SelectSession(id); err != nil {
			internal.LogWarn("Failed to select session %s: %v", id, err)
			return m, nil
		}
		m.setFocus(focusInput)
		cmd := m.resetThread()
		return m, cmd
	case key.Matches(msg, keys.Delete):
		if len(m.sessions) > 0 {
			m.deleteFlow.Request(m.sessions[m.cursor].ID)
		}
	case key.Matches(msg, keys.ToggleTools):
		m.expandTools = !m.expandTools
		m.refreshViewport()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Send) {
		if m.thread.Sending() {
			return m, nil
		}
		ex, ok := m.thread.Begin(m.input.Value())
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.expandTools = false
		m.refreshViewport()
		return m, tea.Batch(m.spinner.Tick, m.sendCmd(ex))
	}

	if m.thread.Sending() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resetThread starts an empty thread for the active session and schedules
// the refreshes that run on every session change
func (m *Model) resetThread() tea.Cmd {
	active := m.store.Active()
	m.generation = m.store.Generation()
	m.thread = internal.NewThread(active)
	m.headerName = internal.DisplayName(active)
	m.expandTools = false
	m.input.Reset()
	m.refreshViewport()

	cmds := []tea.Cmd{m.refreshSessionsCmd(), m.resolveNameCmd()}
	if m.reloadHistory {
		cmds = append(cmds, m.loadHistoryCmd(active))
	}
	if m.focus == focusInput {
		cmds = append(cmds, m.input.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput && !m.thread.Sending() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if f == focusSidebar {
		m.syncCursor()
	}
}

// syncCursor puts the sidebar cursor on the active session
func (m *Model) syncCursor() {
	active := m.store.Active()
	for i, s := range m.sessions {
		if s.ID == active {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.sessions) {
		m.cursor = len(m.sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	chatWidth := m.width
	if m.showSidebar {
		chatWidth -= sidebarWidth + 3
	}
	if chatWidth < 20 {
		chatWidth = 20
	}
	// header, input box and help line
	chatHeight := m.height - 6
	if chatHeight < 3 {
		chatHeight = 3
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = chatHeight
	m.input.Width = chatWidth - 6
	m.help.Width = m.width
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
}

func (m Model) renderThread() string {
	messages := m.thread.Messages()
	if len(messages) == 0 && !m.thread.Sending() {
		return m.renderWelcome()
	}

	lastAssistant := -1
	for i, msg := range messages {
		if msg.Role == internal.RoleAssistant {
			lastAssistant = i
		}
	}

	parts := make([]string, 0, len(messages)+1)
	for i, msg := range messages {
		parts = append(parts, internal.RenderMessage(msg, m.md, m.expandTools && i == lastAssistant))
	}
	if m.thread.Sending() {
		parts = append(parts, m.spinner.View()+" "+thinkingStyle.Render(thinkingText))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width
	body := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Render(welcomeTitle),
		"",
		welcomeTextStyle.Width(width*2/3).Align(lipgloss.Center).Render(welcomeText),
	)
	return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(sidebarTitleStyle.Render("+ " + newSession + " (ctrl+n)"))
	b.WriteString("\n")

	if len(m.sessions) == 0 {
		b.WriteString(emptyStyle.Render(emptyList))
	}
	active := m.store.Active()
	for i, s := range m.sessions {
		prefix := "  "
		if m.focus == focusSidebar && i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
		}
		style := sessionStyle
		if s.ID == active {
			style = activeSessionStyle
		}
		b.WriteString(prefix + style.Render(truncate(s.DisplayName(), sidebarWidth-4)))
		b.WriteString("\n")
	}

	style := sidebarStyle
	if m.focus == focusSidebar {
		style = sidebarFocusedStyle
	}
	return style.Height(m.viewport.Height).Render(b.String())
}

func (m Model) renderConfirm(id string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		modalTitleStyle.Render("Eliminar Conversación"),
		"",
		"¿Estás seguro de que quieres eliminar esta conversación?",
		lipgloss.NewStyle().Bold(true).Render(internal.DisplayName(id)),
		"",
		"[y] Eliminar   [n] Cancelar",
	)
	return modalStyle.Render(body)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	header := headerStyle.Render(m.headerName) + headerHintStyle.Render(fmt.Sprintf("  %s", m.thread.SessionID()))

	var main string
	if id, pending := m.deleteFlow.Pending(); pending {
		main = lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.renderConfirm(id))
	} else {
		main = m.viewport.View()
	}
	if m.showSidebar {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), " ", main)
	}

	inputBox := inputStyle
	if m.focus != focusInput || m.thread.Sending() {
		inputBox = inputBlurredStyle
	}

	var helpView string
	switch {
	case m.deleteFlowPending():
		helpView = m.help.View(confirmHelp{})
	case m.focus == focusSidebar:
		helpView = m.help.View(sidebarHelp{})
	default:
		helpView = m.help.View(inputHelp{})
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		main,
		inputBox.Render(m.input.View()),
		helpView,
	)
}

func (m Model) deleteFlowPending() bool {
	_, pending := m.deleteFlow.Pending()
	return pending
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
