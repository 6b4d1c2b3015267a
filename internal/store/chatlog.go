package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

// Broadcaster receives a change signal after a chat entry lands in the
// store, so independently mounted observers can re-read.
type Broadcaster interface {
	PublishChatAppended(sessionID string) error
}

// ChatLog is a typed view over the chatResults key: a mapping from session
// id to an ordered, append-only list of question/answer exchanges.
//
// The underlying store has no partial-patch primitive, so every append is
// a read-whole/modify/write-whole cycle. All mutations funnel through one
// ChatLog and are serialized by its mutex; concurrent asks may settle in
// either order but never lose an entry.
type ChatLog struct {
	mu    sync.Mutex
	store Store
	bus   Broadcaster
}

// NewChatLog creates a chat log over s. bus may be nil.
func NewChatLog(s Store, bus Broadcaster) *ChatLog {
	return &ChatLog{store: s, bus: bus}
}

// Entries returns the chat history for a session, oldest first. A missing
// mapping or session key decodes to an empty history.
func (l *ChatLog) Entries(sessionID string) ([]domain.ChatEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mapping, err := l.load()
	if err != nil {
		return nil, err
	}
	return mapping[sessionID], nil
}

// Append adds one exchange to a session's history and broadcasts the
// change.
func (l *ChatLog) Append(sessionID string, entry domain.ChatEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	mapping, err := l.load()
	if err != nil {
		return err
	}
	mapping[sessionID] = append(mapping[sessionID], entry)
	if err := l.save(mapping); err != nil {
		return err
	}

	if l.bus != nil {
		if err := l.bus.PublishChatAppended(sessionID); err != nil {
			return fmt.Errorf("failed to broadcast chat change: %w", err)
		}
	}
	return nil
}

// Rekey moves a session's history from oldID to newID. Used when a local
// placeholder session is reconciled with its server-assigned id. A missing
// old history is a no-op.
func (l *ChatLog) Rekey(oldID, newID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	mapping, err := l.load()
	if err != nil {
		return err
	}
	entries, ok := mapping[oldID]
	if !ok {
		return nil
	}
	delete(mapping, oldID)
	mapping[newID] = append(entries, mapping[newID]...)
	return l.save(mapping)
}

func (l *ChatLog) load() (map[string][]domain.ChatEntry, error) {
	raw, ok, err := l.store.Get(KeyChatResults)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string][]domain.ChatEntry)
	if !ok || raw == "" {
		return mapping, nil
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	return mapping, nil
}

func (l *ChatLog) save(mapping map[string][]domain.ChatEntry) error {
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}
	return l.store.Set(KeyChatResults, string(data))
}
