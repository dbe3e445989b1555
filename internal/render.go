package internal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	toolTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	toolLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true)

	toolResultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	toolInputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	toolBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// MarkdownRenderer renders assistant replies. When glamour cannot be set up
// the raw text is returned.
type MarkdownRenderer struct {
	tr *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at width. style is a
// glamour standard style name ("dark", "light", "notty"); empty picks one
// from the terminal.
func NewMarkdownRenderer(width int, style string) *MarkdownRenderer {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		LogWarn("Markdown renderer unavailable: %v", err)
		return &MarkdownRenderer{}
	}
	return &MarkdownRenderer{tr: tr}
}

// Render returns the rendered markdown
func (r *MarkdownRenderer) Render(text string) string {
	if r == nil || r.tr == nil {
		return text
	}
	out, err := r.tr.Render(text)
	if err != nil {
		LogDebug("Markdown render failed: %v", err)
		return text
	}
	return strings.Trim(out, "\n")
}

// FormatJSON pretty-prints v with two-space indentation
func FormatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// RenderToolCall renders a tool call; collapsed shows only its name
func RenderToolCall(tc ToolCall, expanded bool) string {
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	title := toolTitleStyle.Render(fmt.Sprintf("%s Herramienta usada: %s", marker, tc.Tool))
	if !expanded {
		return title
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(toolLabelStyle.Render("Entrada:"))
	b.WriteString("\n")
	b.WriteString(toolInputStyle.Render(FormatJSON(tc.Input)))
	b.WriteString("\n")
	b.WriteString(toolLabelStyle.Render("Resultado:"))
	b.WriteString("\n")
	b.WriteString(toolResultStyle.Render(FormatJSON(tc.Result)))
	return toolBoxStyle.Render(b.String())
}

// RenderMessage renders one thread message with its tool calls
func RenderMessage(msg Message, md *MarkdownRenderer, expandTools bool) string {
	var b strings.Builder
	if msg.Role == RoleUser {
		b.WriteString(userLabelStyle.Render("Tú"))
		b.WriteString("\n")
		b.WriteString(msg.Content)
	} else {
		b.WriteString(assistantLabelStyle.Render("K-Tienda"))
		b.WriteString("\n")
		b.WriteString(md.Render(msg.Content))
	}

	for _, tc := range msg.ToolCalls {
		b.WriteString("\n")
		b.WriteString(RenderToolCall(tc, expandTools))
	}
	return b.String()
}
