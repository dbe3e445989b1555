package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/ktienda-chat/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		notWant    []string
	}{
		{
			name:       "transcript with tool call",
			transcript: internal.CreateTestTranscript("session_1700000000"),
			want: []string{
				"# Conversación 1700000000",
				"**Session:** `session_1700000000`",
				"**Messages:** 2",
				"**Usuario:**",
				"¿tienen stock de camisetas?",
				"**Asistente:**",
				"Sí, tenemos 12 unidades.",
				"<summary>Herramienta usada: check_stock</summary>",
				"\"product\": \"camisetas\"",
				"\"quantity\": 12",
			},
		},
		{
			name: "custom name",
			transcript: &internal.Transcript{
				SessionID: "abc",
				Name:      "Pedidos",
				Messages:  []internal.Message{},
			},
			want: []string{"# Pedidos", "**Messages:** 0"},
		},
		{
			name: "user emphasis escaped",
			transcript: internal.CreateTestTranscriptWithMessages("session_2", []internal.Message{
				{Role: internal.RoleUser, Content: "quiero **dos**"},
				{Role: internal.RoleAssistant, Content: "Tenemos **dos** talles"},
			}),
			want:    []string{"quiero \\*\\*dos\\*\\*", "Tenemos **dos** talles"},
			notWant: []string{"quiero **dos**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.transcript, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\n%s", want, output)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(output, bad) {
					t.Errorf("output should not contain %q", bad)
				}
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bold", input: "**bold**", want: "\\*\\*bold\\*\\*"},
		{name: "underscore", input: "__under__", want: "\\_\\_under\\_\\_"},
		{name: "code block untouched", input: "```\n**x**\n```", want: "```\n**x**\n```"},
		{name: "plain", input: "hola", want: "hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.input); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if got := (&MarkdownExporter{}).Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}
