// Package store provides the persistent client-local key-value state:
// the auth token, display name, staged uploads and per-session chat
// histories. The abstraction is injected into every service so tests can
// substitute an in-memory fake.
package store

import "sync"

// Well-known keys.
const (
	KeyToken       = "token"
	KeyUsername    = "username"
	KeyChatResults = "chatResults"
	KeyUploads     = "uploads"
	KeyActive      = "activeSession"
)

// Store is a flat string key-value store. Get reports presence explicitly;
// missing keys are not errors.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// TokenReader exposes the stored credential as a token source for the API
// client. An empty string means signed out.
type TokenReader struct {
	Store Store
}

func (r TokenReader) Token() string {
	token, _, err := r.Store.Get(KeyToken)
	if err != nil {
		return ""
	}
	return token
}

// MemoryStore is an in-memory Store used by tests and as a fallback when
// no durable state directory is available.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
