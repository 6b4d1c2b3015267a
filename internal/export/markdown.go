package export

import (
	"fmt"
	"io"
	"time"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(export *SessionExport, w io.Writer) error {
	s := export.Session

	title := s.Title
	if title == "" {
		title = fmt.Sprintf("Summarization %s", s.ID)
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	if !s.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", s.CreatedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Session:** %s\n\n", s.ID)

	if s.SummaryText != "" {
		_, _ = fmt.Fprintf(w, "---\n\n## Summary\n\n")
		// The summary is already backend-generated markdown.
		_, _ = fmt.Fprintf(w, "%s\n\n", s.SummaryText)
	}

	if len(export.Chat) > 0 {
		_, _ = fmt.Fprintf(w, "---\n\n## Q&A\n\n")
		for i, entry := range export.Chat {
			_, _ = fmt.Fprintf(w, "**Q:** %s\n\n**A:** %s\n\n", entry.Question, entry.Answer)
			if i < len(export.Chat)-1 {
				_, _ = fmt.Fprintf(w, "---\n\n")
			}
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
