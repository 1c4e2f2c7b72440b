package identity

import "sync"

// SessionStore holds the process-wide chat id to Identity mapping.
// Entries are written once per chat id and never expire.
type SessionStore struct {
	mu     sync.RWMutex
	byChat map[int64]Identity
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{byChat: make(map[int64]Identity)}
}

// Get returns the identity bound to a chat id, if any.
func (s *SessionStore) Get(chatID int64) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byChat[chatID]
	return id, ok
}

// Put binds an identity to its chat id. A repeated write for the same
// chat id overwrites with identical data, so it is idempotent.
func (s *SessionStore) Put(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[id.ChatID] = id
}
