// Package export renders a summarization session with its chat history
// to portable formats.
package export

import (
	"fmt"
	"io"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

// SessionExport bundles everything exported for one session.
type SessionExport struct {
	Session domain.Session     `json:"session" yaml:"session"`
	Chat    []domain.ChatEntry `json:"chat,omitempty" yaml:"chat,omitempty"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(export *SessionExport, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: md, json, yaml)", format)
	}
}
