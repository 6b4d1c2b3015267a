package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports sessions in indented JSON format
type JSONExporter struct{}

// Export exports a session to JSON format
func (e *JSONExporter) Export(export *SessionExport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
