package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
	"github.com/knowlab/knowlab-cli/internal/store"
)

// DefaultSessionTitle is used when a session is created without one.
const DefaultSessionTitle = "New Chat"

// Directory is the canonical in-memory list of summarization sessions,
// newest first: remote sessions plus locally created placeholders. It is
// a best-effort cache over the remote listing, not a source of truth.
type Directory struct {
	mu       sync.Mutex
	backend  Backend
	tokens   api.TokenSource
	bus      Broadcaster
	chatLog  *store.ChatLog
	state    store.Store
	sessions []domain.Session
	activeID string
}

// NewDirectory creates a session directory. bus and chatLog may be nil.
func NewDirectory(backend Backend, tokens api.TokenSource, bus Broadcaster, chatLog *store.ChatLog) *Directory {
	return &Directory{
		backend: backend,
		tokens:  tokens,
		bus:     bus,
		chatLog: chatLog,
	}
}

// WithState makes the active-session selection durable in s, and restores
// the previous selection.
func (d *Directory) WithState(s store.Store) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	if id, ok, err := s.Get(store.KeyActive); err == nil && ok {
		d.activeID = id
	}
	return d
}

// List returns a copy of the sessions, newest first.
func (d *Directory) List() []domain.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Session, len(d.sessions))
	copy(out, d.sessions)
	return out
}

// Refresh replaces the directory contents with the remote listing. Any
// failure, including a missing token, degrades to an empty directory and
// is never surfaced to the caller.
func (d *Directory) Refresh(ctx context.Context) {
	if d.tokens == nil || d.tokens.Token() == "" {
		d.replace(nil)
		return
	}

	remote, err := d.backend.ListSessions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch summaries")
		d.replace(nil)
		return
	}

	// The listing arrives oldest first; most recent goes on top.
	reversed := make([]domain.Session, len(remote))
	for i, s := range remote {
		reversed[len(remote)-1-i] = s
	}
	d.replace(reversed)
}

func (d *Directory) replace(sessions []domain.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions = sessions
}

// CreateLocal synthesizes a placeholder session, prepends it and makes it
// active. The backend is not contacted.
func (d *Directory) CreateLocal(title string) domain.Session {
	if title == "" {
		title = DefaultSessionTitle
	}
	session := domain.Session{
		ID:        domain.LocalIDPrefix + uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
		IsLocal:   true,
	}

	d.mu.Lock()
	d.sessions = append([]domain.Session{session}, d.sessions...)
	d.setActiveLocked(session.ID)
	d.mu.Unlock()

	return session
}

// Merge folds incoming sessions into the directory, de-duplicating by id.
// Incoming entries take priority order; first-seen order is preserved
// otherwise.
func (d *Directory) Merge(incoming []domain.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[string]bool, len(incoming)+len(d.sessions))
	merged := make([]domain.Session, 0, len(incoming)+len(d.sessions))
	for _, s := range append(append([]domain.Session{}, incoming...), d.sessions...) {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		merged = append(merged, s)
	}
	d.sessions = merged
}

// Add prepends a session if its id is unseen and broadcasts it so other
// mounted directory instances update without a re-fetch.
func (d *Directory) Add(session domain.Session) {
	d.mu.Lock()
	known := d.contains(session.ID)
	if !known {
		d.sessions = append([]domain.Session{session}, d.sessions...)
	}
	d.mu.Unlock()

	if !known {
		d.broadcast(session)
	}
}

// Reconcile installs a server-confirmed session. When the active session
// is a local placeholder, the placeholder is replaced in place and its
// chat history rekeyed to the server id; otherwise this behaves as Add.
// The session becomes active either way.
func (d *Directory) Reconcile(session domain.Session) {
	d.mu.Lock()

	if d.contains(session.ID) {
		d.setActiveLocked(session.ID)
		d.mu.Unlock()
		return
	}

	replacedID := ""
	if active, idx := d.lookup(d.activeID); active != nil && active.IsPlaceholder() {
		replacedID = active.ID
		d.sessions[idx] = session
	} else {
		d.sessions = append([]domain.Session{session}, d.sessions...)
	}
	d.setActiveLocked(session.ID)
	d.mu.Unlock()

	if replacedID != "" && d.chatLog != nil {
		if err := d.chatLog.Rekey(replacedID, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("failed to rekey chat history")
		}
	}
	d.broadcast(session)
}

// SetActive marks a session as the target of subsequent asks.
func (d *Directory) SetActive(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setActiveLocked(id)
}

// ActiveID returns the active session id, "" when none is selected. The
// id may refer to a session not (yet) present in the directory.
func (d *Directory) ActiveID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeID
}

// Active returns the active session, or nil when none is selected or the
// selection is unknown to the directory.
func (d *Directory) Active() *domain.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	session, _ := d.lookup(d.activeID)
	if session == nil {
		return nil
	}
	out := *session
	return &out
}

// setActiveLocked must be called with the mutex held.
func (d *Directory) setActiveLocked(id string) {
	d.activeID = id
	if d.state == nil {
		return
	}
	if err := d.state.Set(store.KeyActive, id); err != nil {
		log.Error().Err(err).Msg("failed to persist active session")
	}
}

// Listen prepends sessions broadcast by other components until ctx is
// cancelled. events is typically bus.SubscribeSessions output.
func (d *Directory) Listen(ctx context.Context, events <-chan domain.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case session, ok := <-events:
			if !ok {
				return
			}
			if session.ID == "" {
				continue
			}
			d.mu.Lock()
			if !d.contains(session.ID) {
				d.sessions = append([]domain.Session{session}, d.sessions...)
			}
			d.mu.Unlock()
		}
	}
}

func (d *Directory) contains(id string) bool {
	s, _ := d.lookup(id)
	return s != nil
}

// lookup must be called with the mutex held.
func (d *Directory) lookup(id string) (*domain.Session, int) {
	if id == "" {
		return nil, -1
	}
	for i := range d.sessions {
		if d.sessions[i].ID == id {
			return &d.sessions[i], i
		}
	}
	return nil, -1
}

func (d *Directory) broadcast(session domain.Session) {
	if d.bus == nil {
		return
	}
	if err := d.bus.PublishSessionAdded(session); err != nil {
		log.Error().Err(err).Str("session_id", session.ID).Msg("failed to broadcast session")
	}
}
