package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/core/domain"
	"procflow/internal/pkg/password"

	"github.com/go-playground/validator/v10"
)

// UserService handles user management business logic: lifecycle rules,
// uniqueness, last-admin protection and self-modification guards
type UserService struct {
	userRepo repositories.UserRepository
	sessions *SessionManager
	validate *validator.Validate
	defaults []*domain.User
}

// NewUserService creates a new user service. defaults is the bundled user
// list used by ResetToDefaults.
func NewUserService(userRepo repositories.UserRepository, sessions *SessionManager, defaults []*domain.User) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		validate: validator.New(),
		defaults: defaults,
	}
}

// AddUserInput represents new user input
type AddUserInput struct {
	Username   string      `json:"username" validate:"required,min=2,max=50"`
	Password   string      `json:"password" validate:"omitempty,min=6"`
	Role       domain.Role `json:"role" validate:"required"`
	Department string      `json:"department"`
	Name       string      `json:"name"`
	Email      string      `json:"email" validate:"omitempty,email"`
}

// ListUsers returns active users, optionally filtered by keyword
func (s *UserService) ListUsers(keyword string) []*domain.User {
	return s.userRepo.Search(keyword)
}

// GetUser returns the active user with the given id
func (s *UserService) GetUser(id uint) (*domain.User, error) {
	user := s.userRepo.GetByID(id)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Stats summarizes the active user population
func (s *UserService) Stats() *domain.UserStats {
	return s.userRepo.Stats()
}

// AddUser creates a new user: username must be free among active users
// (case-insensitive), id is max+1, password defaults when omitted
func (s *UserService) AddUser(actor Actor, input *AddUserInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !domain.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	username := strings.TrimSpace(input.Username)
	if existing := s.userRepo.GetByUsername(username); existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	pw := input.Password
	if pw == "" {
		pw = password.Default
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = username
	}
	dept := input.Department
	if dept == "" {
		dept = domain.DepartmentForRole(input.Role)
	}

	user := &domain.User{
		ID:         s.userRepo.NextID(),
		Username:   username,
		Password:   pw,
		Role:       input.Role,
		Department: dept,
		Name:       name,
		Email:      input.Email,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if actor.ID != 0 {
		user.CreatedBy = &actor.ID
	}

	created := s.userRepo.Insert(user)
	log.Printf("✅ User created: %s (%s)", created.Name, created.Username)
	return created, nil
}

// UpdateUser merges the patch onto the user. A username change that
// collides with another active user is rejected. If the actor edits their
// own record, the session copy is refreshed.
func (s *UserService) UpdateUser(actor Actor, id uint, patch *domain.UserPatch) (*domain.User, error) {
	user := s.userRepo.GetByID(id)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if patch.Username != nil && !strings.EqualFold(*patch.Username, user.Username) {
		if existing := s.userRepo.GetByUsername(*patch.Username); existing != nil && existing.ID != id {
			return nil, domain.ErrUsernameTaken
		}
	}
	if patch.Password != nil && !password.Validate(*patch.Password) {
		return nil, domain.ErrPasswordTooShort
	}

	// deactivation through the patch path obeys the same guards as Deactivate
	if patch.IsActive != nil && !*patch.IsActive && user.IsActive {
		if actor.ID == id {
			return nil, domain.ErrSelfDeactivate
		}
		if user.Role == domain.RoleAdmin && s.userRepo.CountActiveAdmins() <= 1 {
			return nil, domain.ErrLastAdmin
		}
	}

	patch.Apply(user)
	s.stampUpdate(user, actor)

	if !s.userRepo.Save(user) {
		return nil, domain.ErrUserNotFound
	}
	s.refreshSessionIfSelf(actor, user)

	log.Printf("✅ User updated: %s (%s)", user.Name, user.Username)
	return user, nil
}

// ChangePassword replaces the user's password, rejecting passwords shorter
// than six characters, and stamps PasswordChangedAt
func (s *UserService) ChangePassword(actor Actor, id uint, newPassword string) (*domain.User, error) {
	if !password.Validate(newPassword) {
		return nil, domain.ErrPasswordTooShort
	}

	user := s.userRepo.GetByID(id)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	user.Password = newPassword
	user.PasswordChangedAt = &now
	s.stampUpdate(user, actor)

	if !s.userRepo.Save(user) {
		return nil, domain.ErrUserNotFound
	}
	s.refreshSessionIfSelf(actor, user)
	return user, nil
}

// Deactivate marks the user inactive without recording a deletion.
// The actor cannot deactivate themselves, and the last active admin is
// protected. Deactivation is terminal: inactive users are invisible to
// every lookup, so there is no reactivation path.
func (s *UserService) Deactivate(actor Actor, id uint) (*domain.User, error) {
	user := s.userRepo.GetByID(id)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if actor.ID == id {
		return nil, domain.ErrSelfDeactivate
	}
	if user.Role == domain.RoleAdmin && s.userRepo.CountActiveAdmins() <= 1 {
		return nil, domain.ErrLastAdmin
	}

	user.IsActive = false
	s.stampUpdate(user, actor)
	s.userRepo.Save(user)

	log.Printf("✅ User deactivated: %s", user.Username)
	return user, nil
}

// DeleteUser soft-deletes the user: the record stays in storage flagged
// inactive. Self-deletion and removing the last active admin are rejected.
func (s *UserService) DeleteUser(actor Actor, id uint) error {
	user := s.userRepo.GetByID(id)
	if user == nil {
		return domain.ErrUserNotFound
	}
	if actor.ID == id {
		return domain.ErrSelfDelete
	}
	if user.Role == domain.RoleAdmin && s.userRepo.CountActiveAdmins() <= 1 {
		return domain.ErrLastAdmin
	}

	now := time.Now()
	user.IsActive = false
	user.DeletedAt = &now
	if actor.ID != 0 {
		user.DeletedBy = &actor.ID
	}
	s.stampUpdate(user, actor)
	s.userRepo.Save(user)

	log.Printf("✅ User deleted (soft): %s", user.Username)
	return nil
}

// PermanentDeleteUser removes the record from storage entirely, under the
// same self/last-admin guards as the soft delete
func (s *UserService) PermanentDeleteUser(actor Actor, id uint) error {
	user := s.userRepo.GetByID(id)
	if user == nil {
		return domain.ErrUserNotFound
	}
	if actor.ID == id {
		return domain.ErrSelfDelete
	}
	if user.Role == domain.RoleAdmin && s.userRepo.CountActiveAdmins() <= 1 {
		return domain.ErrLastAdmin
	}

	if !s.userRepo.Remove(id) {
		return domain.ErrUserNotFound
	}
	log.Printf("✅ User deleted (permanent): %s", user.Username)
	return nil
}

// ResetToDefaults discards all user records and restores the bundled
// defaults
func (s *UserService) ResetToDefaults() {
	s.userRepo.ResetToDefaults(s.defaults)
	log.Printf("✅ User collection reset to %d default accounts", len(s.defaults))
}

// ExportUsers serializes active users as JSON or CSV (passwords excluded)
func (s *UserService) ExportUsers(format string) ([]byte, error) {
	users := s.userRepo.All()

	switch format {
	case "", "json":
		out := make([]*domain.UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, u.ToResponse())
		}
		return json.MarshalIndent(out, "", "  ")
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Write([]string{"username", "name", "role", "department", "email", "created_at", "last_login"})
		for _, u := range users {
			lastLogin := ""
			if u.LastLogin != nil {
				lastLogin = u.LastLogin.Format(time.RFC3339)
			}
			w.Write([]string{
				u.Username,
				u.Name,
				string(u.Role),
				u.Department,
				u.Email,
				u.CreatedAt.Format(time.RFC3339),
				lastLogin,
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}
}

// ImportReport summarizes an import run
type ImportReport struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportUsers upserts users from a JSON array or CSV document. Existing
// usernames are updated, new ones created; rows failing validation are
// reported individually without aborting the run.
func (s *UserService) ImportUsers(actor Actor, data []byte, format string) (*ImportReport, error) {
	rows, err := parseImport(data, format)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for i, row := range rows {
		if err := s.importRow(actor, row); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		report.Imported++
	}
	return report, nil
}

func (s *UserService) importRow(actor Actor, row *AddUserInput) error {
	if row.Username == "" || row.Role == "" {
		return fmt.Errorf("%w: username and role are required", domain.ErrInvalidInput)
	}

	if existing := s.userRepo.GetByUsername(row.Username); existing != nil {
		patch := &domain.UserPatch{
			Role:       &row.Role,
			Department: &row.Department,
			Name:       &row.Name,
			Email:      &row.Email,
		}
		_, err := s.UpdateUser(actor, existing.ID, patch)
		return err
	}

	_, err := s.AddUser(actor, row)
	return err
}

func parseImport(data []byte, format string) ([]*AddUserInput, error) {
	switch format {
	case "", "json":
		var rows []*AddUserInput
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: malformed import document: %v", domain.ErrInvalidInput, err)
		}
		return rows, nil
	case "csv":
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed import document: %v", domain.ErrInvalidInput, err)
		}
		if len(records) < 2 {
			return []*AddUserInput{}, nil
		}

		col := make(map[string]int, len(records[0]))
		for i, h := range records[0] {
			col[strings.ToLower(strings.TrimSpace(h))] = i
		}
		cell := func(row []string, name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		rows := make([]*AddUserInput, 0, len(records)-1)
		for _, rec := range records[1:] {
			rows = append(rows, &AddUserInput{
				Username:   cell(rec, "username"),
				Role:       domain.Role(cell(rec, "role")),
				Department: cell(rec, "department"),
				Name:       cell(rec, "name"),
				Email:      cell(rec, "email"),
			})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: unsupported import format %q", domain.ErrInvalidInput, format)
	}
}

func (s *UserService) stampUpdate(user *domain.User, actor Actor) {
	now := time.Now()
	user.UpdatedAt = &now
	if actor.ID != 0 {
		user.UpdatedBy = &actor.ID
	}
}

func (s *UserService) refreshSessionIfSelf(actor Actor, user *domain.User) {
	if actor.ID == user.ID && actor.SessionID != "" {
		if err := s.sessions.SetUser(actor.SessionID, user); err != nil {
			log.Printf("⚠️ Failed to refresh session user: %v", err)
		}
	}
}
