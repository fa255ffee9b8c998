package services

import (
	"fmt"
	"log"

	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

// ProcessService orchestrates the process repository for the HTTP surface:
// visibility-scoped listing, search, grouping and CRUD
type ProcessService struct {
	processRepo repositories.ProcessRepository
	validate    *validator.Validate
}

// NewProcessService creates a new process service
func NewProcessService(processRepo repositories.ProcessRepository) *ProcessService {
	return &ProcessService{
		processRepo: processRepo,
		validate:    validator.New(),
	}
}

// ListInput narrows the visible process list
type ListInput struct {
	Role     string
	Keyword  string
	Category string
}

// List returns the processes visible to the role, optionally filtered by
// keyword search and category
func (s *ProcessService) List(input *ListInput) []*domain.Process {
	processes := s.processRepo.GetVisibleTo(input.Role)
	if input.Keyword != "" {
		processes = s.processRepo.Search(input.Keyword, processes)
	}
	if input.Category != "" {
		processes = s.processRepo.FilterByCategory(processes, input.Category)
	}
	return processes
}

// Grouped buckets a process list by category or subcategory
func (s *ProcessService) Grouped(processes []*domain.Process, by string) []domain.ProcessGroup {
	if by == "subcategory" {
		return s.processRepo.GroupBySubcategory(processes)
	}
	return s.processRepo.GroupByCategory(processes)
}

// Get returns one process. Admins and managers see every record; other
// roles only records whose visibility set contains their role.
func (s *ProcessService) Get(role domain.Role, id uint) (*domain.Process, error) {
	p := s.processRepo.GetByID(id)
	if p == nil {
		return nil, domain.ErrProcessNotFound
	}
	if role != domain.RoleAdmin && role != domain.RoleManager && !p.VisibleToRole(string(role)) {
		return nil, domain.ErrProcessNotFound
	}
	return p, nil
}

// CreateProcessInput represents new process input
type CreateProcessInput struct {
	Title       string        `json:"title" validate:"required"`
	Category    string        `json:"category" validate:"required"`
	Subcategory string        `json:"subcategory"`
	Description string        `json:"description"`
	Department  string        `json:"department"`
	Owner       string        `json:"owner"`
	Version     string        `json:"version"`
	Steps       []domain.Step `json:"steps"`
	VisibleTo   []string      `json:"visibleTo" validate:"required,min=1"`
}

// Create validates the input and adds the process to the front of the list
func (s *ProcessService) Create(input *CreateProcessInput) (*domain.Process, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	subcategory := input.Subcategory
	if subcategory == "" {
		subcategory = "General"
	}
	version := input.Version
	if version == "" {
		version = "1.0"
	}

	created := s.processRepo.Add(&domain.Process{
		Title:       input.Title,
		Category:    input.Category,
		Subcategory: subcategory,
		Description: input.Description,
		Department:  input.Department,
		Owner:       input.Owner,
		Version:     version,
		Steps:       input.Steps,
		VisibleTo:   input.VisibleTo,
	})

	log.Printf("✅ Process created: #%d %s", created.ID, created.Title)
	return created, nil
}

// Update merges the patch onto the process
func (s *ProcessService) Update(id uint, patch *domain.ProcessPatch) (*domain.Process, error) {
	updated := s.processRepo.Update(id, patch)
	if updated == nil {
		return nil, domain.ErrProcessNotFound
	}
	log.Printf("✅ Process updated: #%d %s", updated.ID, updated.Title)
	return updated, nil
}

// Delete removes the process permanently
func (s *ProcessService) Delete(id uint) error {
	if !s.processRepo.Delete(id) {
		return domain.ErrProcessNotFound
	}
	log.Printf("✅ Process deleted: #%d", id)
	return nil
}
