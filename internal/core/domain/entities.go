package domain

import "time"

// Role represents a user role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleFinance  Role = "finance"
	RoleEmployee Role = "employee"
	RoleSales    Role = "sales"
	RoleTech     Role = "tech"
)

// Step is a single ordered step inside a process.
// Number is 1-based and contiguous within a process; the repository
// renumbers steps on every add/update.
type Step struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Process represents a documented business process with role-based visibility
type Process struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Description string    `json:"description"`
	Department  string    `json:"department"`
	Owner       string    `json:"owner"`
	Version     string    `json:"version"`
	Steps       []Step    `json:"steps"`
	VisibleTo   []string  `json:"visibleTo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VisibleToRole reports whether the process is visible to the given role
func (p *Process) VisibleToRole(role string) bool {
	for _, r := range p.VisibleTo {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate repository state
func (p *Process) Clone() *Process {
	cp := *p
	cp.Steps = append([]Step(nil), p.Steps...)
	cp.VisibleTo = append([]string(nil), p.VisibleTo...)
	return &cp
}

// User represents a directory user.
// Password is stored and compared in plaintext; it is stripped from API
// responses via ToResponse.
type User struct {
	ID                uint       `json:"id"`
	Username          string     `json:"username"`
	Password          string     `json:"password"`
	Role              Role       `json:"role"`
	Department        string     `json:"department"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	IsActive          bool       `json:"isActive"`
	Guest             bool       `json:"isGuest,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	DeletedAt         *time.Time `json:"deletedAt,omitempty"`
	CreatedBy         *uint      `json:"createdBy,omitempty"`
	UpdatedBy         *uint      `json:"updatedBy,omitempty"`
	DeletedBy         *uint      `json:"deletedBy,omitempty"`
}

// Clone returns a copy of the user record
func (u *User) Clone() *User {
	cp := *u
	return &cp
}

// UserResponse is the API-facing user DTO (no password)
type UserResponse struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	Department string     `json:"department"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	IsActive   bool       `json:"is_active"`
	Guest      bool       `json:"is_guest,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// ToResponse converts a user record to its API DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		Department: u.Department,
		Name:       u.Name,
		Email:      u.Email,
		IsActive:   u.IsActive,
		Guest:      u.Guest,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

// UserStats summarizes the active user population
type UserStats struct {
	Total        int            `json:"total"`
	ByRole       map[string]int `json:"by_role"`
	ByDepartment map[string]int `json:"by_department"`
}

// ProcessGroup is one bucket of a category/subcategory grouping.
// Groups preserve the encounter order of their keys.
type ProcessGroup struct {
	Key       string     `json:"key"`
	Processes []*Process `json:"processes"`
}
