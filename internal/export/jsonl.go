package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/ktienda-chat/internal"
)

// jsonlLine is one message of a JSONL transcript
type jsonlLine struct {
	SessionID string              `json:"session_id"`
	Index     int                 `json:"index"`
	Role      string              `json:"role"`
	Content   string              `json:"content"`
	ToolCalls []internal.ToolCall `json:"tool_calls,omitempty"`
}

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes one JSON object per message
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, msg := range transcript.Messages {
		line := jsonlLine{
			SessionID: transcript.SessionID,
			Index:     i,
			Role:      msg.Role,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
