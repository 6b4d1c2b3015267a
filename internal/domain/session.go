package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// LocalIDPrefix marks client-generated placeholder session ids.
const LocalIDPrefix = "local-"

// Session represents a summarization session: a set of uploaded documents
// paired with a generated summary and its Q&A history. A session is either
// server-tracked or a locally staged placeholder awaiting its first
// summarize call.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	SummaryText string    `json:"summary_text,omitempty"`
	IsLocal     bool      `json:"is_local,omitempty"`
}

// IsPlaceholder reports whether the session id was generated locally.
func (s Session) IsPlaceholder() bool {
	return s.IsLocal || strings.HasPrefix(s.ID, LocalIDPrefix)
}

// UploadedFile tracks a file accepted by the backend. ID is a local
// identifier for list management; BackendID is the server-assigned
// document id used in summarize requests.
type UploadedFile struct {
	ID        string `json:"id"`
	BackendID int64  `json:"backend_id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Type      string `json:"type,omitempty"`
}

// ChatEntry is one question/answer exchange. The JSON keys match the
// backend's client-store encoding so histories written by other clients
// decode cleanly.
type ChatEntry struct {
	Question  string    `json:"q"`
	Answer    string    `json:"a"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is a transient display record built from a summarize response or
// a selected session. It is never persisted.
type Result struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionID normalizes a server session identifier, which may arrive as a
// JSON number or string, to its canonical string form.
type SessionID string

// UnmarshalJSON accepts both `5` and `"5"`.
func (id *SessionID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = SessionID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = SessionID(n.String())
	return nil
}

func (id SessionID) String() string {
	return string(id)
}

// FormatSessionID converts a numeric server id to its canonical string form.
func FormatSessionID(n int64) string {
	return strconv.FormatInt(n, 10)
}
