package domain

import "time"

// ProcessPatch is a typed partial update for a process record.
// Nil fields keep the existing value.
type ProcessPatch struct {
	Title       *string   `json:"title"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	Description *string   `json:"description"`
	Department  *string   `json:"department"`
	Owner       *string   `json:"owner"`
	Version     *string   `json:"version"`
	Steps       *[]Step   `json:"steps"`
	VisibleTo   *[]string `json:"visibleTo"`
}

// Apply merges the patch onto the process and stamps UpdatedAt
func (patch *ProcessPatch) Apply(p *Process) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		p.Subcategory = *patch.Subcategory
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Department != nil {
		p.Department = *patch.Department
	}
	if patch.Owner != nil {
		p.Owner = *patch.Owner
	}
	if patch.Version != nil {
		p.Version = *patch.Version
	}
	if patch.Steps != nil {
		p.Steps = append([]Step(nil), (*patch.Steps)...)
	}
	if patch.VisibleTo != nil {
		p.VisibleTo = append([]string(nil), (*patch.VisibleTo)...)
	}
	p.UpdatedAt = time.Now()
}

// UserPatch is a typed partial update for a user record.
// Nil fields keep the existing value.
type UserPatch struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	Role       *Role   `json:"role"`
	Department *string `json:"department"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	IsActive   *bool   `json:"is_active"`
}

// Apply merges the patch onto the user
func (patch *UserPatch) Apply(u *User) {
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
}
