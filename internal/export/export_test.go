package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

func sampleExport() *SessionExport {
	return &SessionExport{
		Session: domain.Session{
			ID:          "42",
			Title:       `Summarization "notes.pdf"`,
			CreatedAt:   time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
			SummaryText: "The document covers three topics.",
		},
		Chat: []domain.ChatEntry{
			{Question: "what topics?", Answer: "a, b and c"},
			{Question: "why?", Answer: "because"},
		},
	}
}

func TestNewExporter(t *testing.T) {
	for format, ext := range map[string]string{
		"md":       "md",
		"markdown": "md",
		"json":     "json",
		"yaml":     "yaml",
	} {
		e, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.Extension())
	}

	_, err := NewExporter("pdf")
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(sampleExport(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Summarization \"notes.pdf\"\n"))
	assert.Contains(t, out, "**Session:** 42")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "The document covers three topics.")
	assert.Contains(t, out, "**Q:** what topics?")
	assert.Contains(t, out, "**A:** because")
}

func TestMarkdownExporter_UntitledWithoutChat(t *testing.T) {
	var buf bytes.Buffer
	export := &SessionExport{Session: domain.Session{ID: "7"}}
	require.NoError(t, (&MarkdownExporter{}).Export(export, &buf))
	out := buf.String()

	assert.Contains(t, out, "# Summarization 7")
	assert.NotContains(t, out, "## Q&A")
	assert.NotContains(t, out, "## Summary")
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(sampleExport(), &buf))

	var decoded SessionExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "42", decoded.Session.ID)
	assert.Len(t, decoded.Chat, 2)
	assert.Equal(t, "what topics?", decoded.Chat[0].Question)
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(sampleExport(), &buf))

	var decoded SessionExport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "42", decoded.Session.ID)
	assert.Len(t, decoded.Chat, 2)
	assert.Equal(t, "because", decoded.Chat[1].Answer)
}
