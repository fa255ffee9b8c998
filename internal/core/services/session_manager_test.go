package services

import (
	"testing"
	"time"

	"procflow/internal/adapters/persistence/store"
	"procflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := NewSessionManager(testSessionStore(t), time.Hour)

	user := &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true}
	session, err := m.Create(user, false)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	got, err := m.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.User.ID)
	assert.False(t, got.Guest)
}

func TestSessionManagerGetMissing(t *testing.T) {
	m := NewSessionManager(testSessionStore(t), time.Hour)

	_, err := m.Get("no-such-session")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManagerExpiry(t *testing.T) {
	st := testSessionStore(t)
	m := NewSessionManager(st, -time.Minute) // already expired on creation

	session, err := m.Create(&domain.User{ID: 1, Username: "admin"}, false)
	require.NoError(t, err)

	_, err = m.Get(session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// the expired blob was removed, so a second Get reports not-found
	_, err = m.Get(session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManagerSetUser(t *testing.T) {
	m := NewSessionManager(testSessionStore(t), time.Hour)

	session, err := m.Create(&domain.User{ID: 1, Username: "admin", Name: "System Administrator"}, false)
	require.NoError(t, err)

	require.NoError(t, m.SetUser(session.ID, &domain.User{ID: 1, Username: "admin", Name: "Renamed"}))

	got, err := m.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.User.Name)
}

func TestSessionManagerPurgeExpired(t *testing.T) {
	st := testSessionStore(t)

	expired := NewSessionManager(st, -time.Minute)
	_, err := expired.Create(&domain.User{ID: 1, Username: "old"}, false)
	require.NoError(t, err)

	live := NewSessionManager(st, time.Hour)
	keep, err := live.Create(&domain.User{ID: 2, Username: "fresh"}, false)
	require.NoError(t, err)

	purged, err := live.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = live.Get(keep.ID)
	assert.NoError(t, err)
}
