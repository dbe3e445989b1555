package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/ktienda-chat/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		wantLines  int
	}{
		{
			name:       "empty transcript",
			transcript: internal.CreateTestTranscriptWithMessages("session_1", []internal.Message{}),
			wantLines:  0,
		},
		{
			name:       "user and assistant",
			transcript: internal.CreateTestTranscript("session_2"),
			wantLines:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.transcript, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			scanner := bufio.NewScanner(&buf)
			lines := 0
			for scanner.Scan() {
				var line map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", lines, err)
				}
				if line["session_id"] != tt.transcript.SessionID {
					t.Errorf("line %d session_id = %v, want %s", lines, line["session_id"], tt.transcript.SessionID)
				}
				if int(line["index"].(float64)) != lines {
					t.Errorf("line %d index = %v", lines, line["index"])
				}
				lines++
			}
			if lines != tt.wantLines {
				t.Errorf("got %d lines, want %d", lines, tt.wantLines)
			}
		})
	}
}

func TestJSONLExporter_OmitsEmptyToolCalls(t *testing.T) {
	var buf bytes.Buffer
	transcript := internal.CreateTestTranscriptWithMessages("session_3", []internal.Message{
		{Role: internal.RoleUser, Content: "hola"},
	})
	if err := (&JSONLExporter{}).Export(transcript, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("tool_calls")) {
		t.Errorf("output should omit tool_calls, got %s", buf.String())
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	if got := (&JSONLExporter{}).Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
