package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/knowlab/knowlab-cli/internal/domain"
	"github.com/knowlab/knowlab-cli/internal/store"
)

// Chat submits free-text questions scoped to a session and records the
// exchanges in the persistent chat log.
type Chat struct {
	backend Backend
	chatLog *store.ChatLog
}

// NewChat creates the interactive query channel.
func NewChat(backend Backend, chatLog *store.ChatLog) *Chat {
	return &Chat{backend: backend, chatLog: chatLog}
}

// Ask sends a question against a session. Empty question text or a
// missing session id is rejected locally with no backend call. On success
// the exchange is appended to the chat log, which broadcasts the change.
func (c *Chat) Ask(ctx context.Context, sessionID, question string) (domain.ChatEntry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatEntry{}, domain.NewValidationError("Query cannot be empty")
	}
	if sessionID == "" {
		return domain.ChatEntry{}, domain.NewValidationError("Please select or create a summarization session first")
	}

	answer, err := c.backend.Ask(ctx, sessionID, question)
	if err != nil {
		return domain.ChatEntry{}, err
	}

	entry := domain.ChatEntry{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now(),
	}
	if err := c.chatLog.Append(sessionID, entry); err != nil {
		// The answer arrived; a failed local write should not hide it.
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to record chat entry")
	}
	return entry, nil
}

// History returns the recorded exchanges for a session, oldest first.
func (c *Chat) History(sessionID string) ([]domain.ChatEntry, error) {
	return c.chatLog.Entries(sessionID)
}
