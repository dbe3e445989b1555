package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/ktienda-chat/internal"
)

// JSONExporter exports transcripts as a single indented JSON document
type JSONExporter struct{}

// Export writes the transcript as JSON
func (e *JSONExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(transcript)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
