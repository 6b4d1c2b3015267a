// Package notify holds transient user-visible notifications with a fixed
// display lifetime, mirroring auto-dismissing popups.
package notify

import (
	"sync"
	"time"
)

// DisplayDuration is how long a notification stays visible.
const DisplayDuration = 2500 * time.Millisecond

// Kind distinguishes notification styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one transient notification.
type Notice struct {
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Board collects notices and prunes them once their display time elapses.
type Board struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Push adds a notice that expires after DisplayDuration.
func (b *Board) Push(kind Kind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{
		Kind:      kind,
		Message:   message,
		ExpiresAt: b.now().Add(DisplayDuration),
	})
}

// Active returns the not-yet-expired notices in push order, dropping the
// expired ones.
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	kept := b.notices[:0]
	for _, n := range b.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	b.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}
