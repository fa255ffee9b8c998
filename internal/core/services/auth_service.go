package services

import (
	"fmt"
	"log"
	"time"

	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/config"
	"procflow/internal/core/domain"
	"procflow/internal/pkg/jwt"
	"procflow/internal/pkg/password"
)

// Actor identifies the authenticated caller of a mutation
type Actor struct {
	ID        uint
	Username  string
	Role      domain.Role
	SessionID string
}

// AuthService handles credential checks and session bookkeeping
type AuthService struct {
	userRepo repositories.UserRepository
	sessions *SessionManager
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, sessions *SessionManager, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	User        *domain.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
}

// Login authenticates a user: case-insensitive username match, exact
// password match, active account. Stamps LastLogin on success.
func (s *AuthService) Login(input *LoginInput) (*AuthResponse, error) {
	user := s.userRepo.GetByUsername(input.Username)
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(user, false)
}

// RoleLogin signs in as the first active user holding the role. This is the
// role-card flow; when no account holds the role it fails instead of
// inventing a transient user (GuestLogin is the explicit opt-in for that).
func (s *AuthService) RoleLogin(role domain.Role) (*AuthResponse, error) {
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	user := s.userRepo.GetByRole(role)
	if user == nil {
		return nil, domain.ErrRoleNotStaffed
	}

	return s.openSession(user, false)
}

// GuestLogin opens a session for a transient user carrying the role. The
// guest user gets a time-based id and is never added to the repository.
func (s *AuthService) GuestLogin(role domain.Role) (*AuthResponse, error) {
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	guest := &domain.User{
		ID:         uint(time.Now().UnixMilli()),
		Username:   string(role),
		Role:       role,
		Department: domain.DepartmentForRole(role),
		Name:       domain.DisplayNameForRole(role),
		IsActive:   true,
		Guest:      true,
		CreatedAt:  time.Now(),
	}

	session, err := s.sessions.Create(guest, true)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(guest, session.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Guest session opened for role %s", role)
	return &AuthResponse{User: guest.ToResponse(), AccessToken: token}, nil
}

// Restore resolves a session back to its user. Non-guest sessions are
// re-resolved against the repository so edits and deletions take effect.
func (s *AuthService) Restore(sessionID string) (*domain.User, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Guest {
		return session.User, nil
	}

	user := s.userRepo.GetByID(session.User.ID)
	if user == nil {
		s.sessions.Delete(sessionID)
		return nil, domain.ErrSessionNotFound
	}
	if err := s.sessions.SetUser(sessionID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout closes the session
func (s *AuthService) Logout(sessionID string) {
	if err := s.sessions.Delete(sessionID); err != nil {
		log.Printf("⚠️ Failed to delete session: %v", err)
	}
}

func (s *AuthService) openSession(user *domain.User, guest bool) (*AuthResponse, error) {
	now := time.Now()
	user.LastLogin = &now
	s.userRepo.Save(user)

	session, err := s.sessions.Create(user, guest)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user, session.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User signed in: %s (role: %s)", user.Username, user.Role)
	return &AuthResponse{User: user.ToResponse(), AccessToken: token}, nil
}

func (s *AuthService) issueToken(user *domain.User, sessionID string) (string, error) {
	return jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		string(user.Role),
		sessionID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
}
