package config

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"procflow/internal/core/domain"
	"procflow/internal/pkg/password"
)

// Dataset is the bundled startup dataset: two top-level arrays shaped like
// the repository records. It seeds the repositories, which then merge any
// persisted state over it by id.
type Dataset struct {
	Processes []*domain.Process `json:"processes"`
	Users     []*domain.User    `json:"users"`
}

// LoadDataset reads the bundled dataset from path. On read or parse
// failure it falls back to the built-in defaults, so startup never fails
// on a missing or corrupt dataset file.
func LoadDataset(path string) *Dataset {
	body, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Could not read dataset %s, using built-in defaults: %v", path, err)
		return DefaultDataset()
	}

	var ds Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		log.Printf("⚠️ Could not parse dataset %s, using built-in defaults: %v", path, err)
		return DefaultDataset()
	}

	if len(ds.Users) == 0 {
		ds.Users = DefaultUsers()
	}
	log.Printf("✅ Dataset loaded: %d processes, %d users", len(ds.Processes), len(ds.Users))
	return &ds
}

// DefaultDataset returns the built-in fallback dataset
func DefaultDataset() *Dataset {
	return &Dataset{
		Processes: DefaultProcesses(),
		Users:     DefaultUsers(),
	}
}

// DefaultProcesses returns the built-in sample processes
func DefaultProcesses() []*domain.Process {
	return []*domain.Process{
		{
			ID:          1,
			Title:       "New Employee Onboarding",
			Category:    "hr",
			Subcategory: "Recruiting & Onboarding",
			Description: "Standard onboarding procedure ensuring new hires settle in smoothly",
			Department:  "Human Resources",
			Owner:       "Human Resources",
			Version:     "2.1",
			VisibleTo:   []string{"admin", "manager", "hr", "employee"},
			Steps: []domain.Step{
				{Number: 1, Title: "Pre-arrival preparation", Description: "Prepare equipment, accounts and access badge"},
				{Number: 2, Title: "First-day check-in", Description: "Report to HR and hand in required documents"},
				{Number: 3, Title: "Orientation training", Description: "Company policy and culture training"},
				{Number: 4, Title: "Team introduction", Description: "Report to the assigned department and meet the team"},
				{Number: 5, Title: "Probation follow-up", Description: "Work assignments and reviews during probation"},
			},
			CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Expense Reimbursement",
			Category:    "finance",
			Subcategory: "Routine Expenses",
			Description: "Expense claim procedure keeping reimbursements compliant and fast",
			Department:  "Finance",
			Owner:       "Finance",
			Version:     "3.0",
			VisibleTo:   []string{"admin", "manager", "finance", "employee"},
			Steps: []domain.Step{
				{Number: 1, Title: "File the claim", Description: "Submit the claim with receipts and a short justification"},
				{Number: 2, Title: "Manager approval", Description: "Department manager approves the claim"},
				{Number: 3, Title: "Finance review", Description: "Finance verifies receipts and amounts"},
				{Number: 4, Title: "Payment", Description: "Finance processes the payout"},
				{Number: 5, Title: "Archiving", Description: "Receipts and vouchers are archived"},
			},
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}

// DefaultUsers returns the built-in role accounts, one per core role,
// all starting with the default password.
func DefaultUsers() []*domain.User {
	now := time.Now()
	mk := func(id uint, role domain.Role) *domain.User {
		return &domain.User{
			ID:         id,
			Username:   string(role),
			Password:   password.Default,
			Role:       role,
			Department: domain.DepartmentForRole(role),
			Name:       domain.DisplayNameForRole(role),
			Email:      string(role) + "@company.com",
			IsActive:   true,
			CreatedAt:  now,
		}
	}

	return []*domain.User{
		mk(1, domain.RoleAdmin),
		mk(2, domain.RoleManager),
		mk(3, domain.RoleHR),
		mk(4, domain.RoleFinance),
		mk(5, domain.RoleEmployee),
	}
}
