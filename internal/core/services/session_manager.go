package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"procflow/internal/adapters/persistence/store"
	"procflow/internal/core/domain"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session-"

// Session is the serialized authenticated-user state. Guest sessions carry
// a transient user that exists nowhere else; regular sessions are
// re-resolved against the user repository on restore.
type Session struct {
	ID        string       `json:"id"`
	User      *domain.User `json:"user"`
	Guest     bool         `json:"guest"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionManager persists sessions as keyed blobs in a store
type SessionManager struct {
	store store.Store
	ttl   time.Duration
}

// NewSessionManager creates a session manager with the given lifetime
func NewSessionManager(st store.Store, ttl time.Duration) *SessionManager {
	return &SessionManager{store: st, ttl: ttl}
}

// Create opens a new session for the user
func (m *SessionManager) Create(user *domain.User, guest bool) (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		User:      user.Clone(),
		Guest:     guest,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Get returns the session with the given id. Expired sessions are removed
// and reported as ErrSessionExpired.
func (m *SessionManager) Get(id string) (*Session, error) {
	body, err := m.store.Get(sessionKeyPrefix + id)
	if err != nil {
		if err == store.ErrKeyNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		m.store.Delete(sessionKeyPrefix + id)
		return nil, domain.ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		m.store.Delete(sessionKeyPrefix + id)
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// SetUser replaces the session's user copy, keeping session and expiry
func (m *SessionManager) SetUser(id string, user *domain.User) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.User = user.Clone()
	return m.save(session)
}

// Delete closes the session. Deleting a missing session is not an error.
func (m *SessionManager) Delete(id string) error {
	return m.store.Delete(sessionKeyPrefix + id)
}

// PurgeExpired removes every expired session blob and returns the count
func (m *SessionManager) PurgeExpired() (int, error) {
	keys, err := m.store.Keys(sessionKeyPrefix)
	if err != nil {
		return 0, err
	}

	purged := 0
	now := time.Now()
	for _, key := range keys {
		body, err := m.store.Get(key)
		if err != nil {
			continue
		}
		var session Session
		if err := json.Unmarshal(body, &session); err != nil || now.After(session.ExpiresAt) {
			if derr := m.store.Delete(key); derr != nil {
				log.Printf("⚠️ Failed to purge session %s: %v", strings.TrimPrefix(key, sessionKeyPrefix), derr)
				continue
			}
			purged++
		}
	}
	return purged, nil
}

func (m *SessionManager) save(session *Session) error {
	body, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return m.store.Put(sessionKeyPrefix+session.ID, body)
}
