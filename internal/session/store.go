package session

import "sync"

// Credential keys owned by the session layer.
const (
	KeyAccessToken = "access_token"
	KeyExpiresAt   = "expires_at"
	KeyUserID      = "user_id"
	KeyUserEmail   = "user_email"
)

// OwnedKeys are the only keys SignOut removes from a CredentialStore.
var OwnedKeys = []string{KeyAccessToken, KeyExpiresAt, KeyUserID, KeyUserEmail}

// CredentialStore is a small persistent key/value store for client credentials.
type CredentialStore interface {
	Get(key string) (string, bool)
	Set(values map[string]string) error
	Delete(keys ...string) error
}

// MemoryStore is an in-process CredentialStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
