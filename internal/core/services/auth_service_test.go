package services

import (
	"testing"
	"time"

	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/config"
	"procflow/internal/core/domain"
	"procflow/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Session: config.SessionConfig{TTLHours: 8},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, repositories.UserRepository, *SessionManager) {
	t.Helper()

	st := testSessionStore(t)
	userRepo := repositories.NewUserRepository([]*domain.User{
		{ID: 1, Username: "admin", Password: "123456", Role: domain.RoleAdmin, Department: "Administration", Name: "System Administrator", IsActive: true},
		{ID: 2, Username: "hr", Password: "123456", Role: domain.RoleHR, Department: "Human Resources", Name: "HR Specialist", IsActive: true},
	}, st, "users")
	sessions := NewSessionManager(st, time.Hour)

	return NewAuthService(userRepo, sessions, testConfig()), userRepo, sessions
}

func TestLogin(t *testing.T) {
	auth, userRepo, _ := newAuthFixture(t)

	resp, err := auth.Login(&LoginInput{Username: "Admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)

	// token claims carry the session id
	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	// last login stamped on the stored record
	stored := userRepo.GetByID(1)
	require.NotNil(t, stored.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	_, err := auth.Login(&LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Login(&LoginInput{Username: "nobody", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRoleLogin(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	resp, err := auth.RoleLogin(domain.RoleHR)
	require.NoError(t, err)
	assert.Equal(t, "hr", resp.User.Username)

	// no account holds the sales role
	_, err = auth.RoleLogin(domain.RoleSales)
	assert.ErrorIs(t, err, domain.ErrRoleNotStaffed)

	_, err = auth.RoleLogin(domain.Role("wizard"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGuestLogin(t *testing.T) {
	auth, userRepo, _ := newAuthFixture(t)

	resp, err := auth.GuestLogin(domain.RoleSales)
	require.NoError(t, err)
	assert.True(t, resp.User.Guest)
	assert.Equal(t, domain.RoleSales, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)

	// the transient user is never added to the repository
	assert.Nil(t, userRepo.GetByID(resp.User.ID))
	assert.Len(t, userRepo.All(), 2)
}

func TestRestoreReResolvesUser(t *testing.T) {
	auth, userRepo, sessions := newAuthFixture(t)

	resp, err := auth.Login(&LoginInput{Username: "hr", Password: "123456"})
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)

	// edit the record behind the session's back
	stored := userRepo.GetByID(2)
	stored.Name = "Renamed"
	userRepo.Save(stored)

	restored, err := auth.Restore(claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", restored.Name)

	// deleting the user invalidates the session
	userRepo.Remove(2)
	_, err = auth.Restore(claims.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = sessions.Get(claims.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLoginAfterPasswordChange(t *testing.T) {
	auth, userRepo, _ := newAuthFixture(t)

	sessions := NewSessionManager(testSessionStore(t), time.Hour)
	users := NewUserService(userRepo, sessions, nil)

	_, err := users.ChangePassword(Actor{ID: 1, Role: domain.RoleAdmin}, 2, "abcdef")
	require.NoError(t, err)

	_, err = auth.Login(&LoginInput{Username: "hr", Password: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	resp, err := auth.Login(&LoginInput{Username: "hr", Password: "abcdef"})
	require.NoError(t, err)
	assert.Equal(t, "hr", resp.User.Username)
}

func TestLogout(t *testing.T) {
	auth, _, sessions := newAuthFixture(t)

	resp, err := auth.Login(&LoginInput{Username: "admin", Password: "123456"})
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)

	auth.Logout(claims.SessionID)

	_, err = sessions.Get(claims.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
