package repositories

import "procflow/internal/core/domain"

// ProcessRepository defines the process repository interface.
// All query results are defensive copies; mutating them does not touch
// repository state.
type ProcessRepository interface {
	GetAll() []*domain.Process
	GetByID(id uint) *domain.Process
	GetVisibleTo(role string) []*domain.Process
	Search(keyword string, scope []*domain.Process) []*domain.Process
	FilterByCategory(scope []*domain.Process, category string) []*domain.Process
	GroupByCategory(scope []*domain.Process) []domain.ProcessGroup
	GroupBySubcategory(scope []*domain.Process) []domain.ProcessGroup
	Add(p *domain.Process) *domain.Process
	Update(id uint, patch *domain.ProcessPatch) *domain.Process
	Delete(id uint) bool
	Len() int
}

// UserRepository defines the user repository interface.
// Lookups see active users only; Save and Remove reach soft-deleted
// records as well.
type UserRepository interface {
	All() []*domain.User
	GetByID(id uint) *domain.User
	GetByUsername(username string) *domain.User
	GetByRole(role domain.Role) *domain.User
	Search(keyword string) []*domain.User
	CountActiveAdmins() int
	Stats() *domain.UserStats
	NextID() uint
	Insert(u *domain.User) *domain.User
	Save(u *domain.User) bool
	Remove(id uint) bool
	ResetToDefaults(defaults []*domain.User)
}
