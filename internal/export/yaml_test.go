package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/ktienda-chat/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	transcript := internal.CreateTestTranscript("session_1700000000")

	if err := (&YAMLExporter{}).Export(transcript, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var got internal.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, buf.String())
	}
	if got.SessionID != transcript.SessionID {
		t.Errorf("SessionID = %q, want %q", got.SessionID, transcript.SessionID)
	}
	if got.Name != "Conversación 1700000000" {
		t.Errorf("Name = %q, want Conversación 1700000000", got.Name)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(got.Messages))
	}
	if len(got.Messages[1].ToolCalls) != 1 {
		t.Errorf("assistant message should keep its tool call")
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
