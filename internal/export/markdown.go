package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/ktienda-chat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export writes a readable Markdown transcript
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	name := transcript.Name
	if name == "" {
		name = internal.DisplayName(transcript.SessionID)
	}

	_, _ = fmt.Fprintf(w, "# %s\n\n", name)
	_, _ = fmt.Fprintf(w, "**Session:** `%s`  \n", transcript.SessionID)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range transcript.Messages {
		// assistant replies are already markdown and are written as-is
		content := msg.Content
		if msg.Role == internal.RoleUser {
			content = escapeMarkdown(content)
		}
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", roleLabel(msg.Role), content)

		for _, tc := range msg.ToolCalls {
			_, _ = fmt.Fprintf(w, "<details>\n<summary>Herramienta usada: %s</summary>\n\n", tc.Tool)
			_, _ = fmt.Fprintf(w, "Entrada:\n\n```json\n%s\n```\n\n", internal.FormatJSON(tc.Input))
			_, _ = fmt.Fprintf(w, "Resultado:\n\n```json\n%s\n```\n\n</details>\n\n", internal.FormatJSON(tc.Result))
		}

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func roleLabel(role string) string {
	switch role {
	case internal.RoleUser:
		return "Usuario"
	case internal.RoleAssistant:
		return "Asistente"
	default:
		return role
	}
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
