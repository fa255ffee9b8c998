package services

import (
	"testing"

	"procflow/internal/adapters/persistence/repositories"
	"procflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessFixture(t *testing.T) *ProcessService {
	t.Helper()

	defaults := []*domain.Process{
		{
			ID:          1,
			Title:       "New Employee Onboarding",
			Category:    "hr",
			Subcategory: "Recruiting & Onboarding",
			VisibleTo:   []string{"admin", "manager", "hr", "employee"},
			Steps:       []domain.Step{{Number: 1, Title: "Orientation training"}},
		},
		{
			ID:        2,
			Title:     "Expense Reimbursement",
			Category:  "finance",
			VisibleTo: []string{"admin", "manager", "finance", "employee"},
		},
		{
			ID:        3,
			Title:     "Quarterly Sales Review",
			Category:  "sales",
			VisibleTo: []string{"admin", "manager", "sales"},
		},
	}
	repo := repositories.NewProcessRepository(defaults, testSessionStore(t), "processes")
	return NewProcessService(repo)
}

func TestListScopesByRole(t *testing.T) {
	svc := newProcessFixture(t)

	ids := func(list []*domain.Process) []uint {
		out := make([]uint, 0, len(list))
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []uint{1, 2}, ids(svc.List(&ListInput{Role: "employee"})))
	assert.ElementsMatch(t, []uint{1}, ids(svc.List(&ListInput{Role: "hr"})))
	assert.Empty(t, svc.List(&ListInput{Role: ""}))
}

func TestListCombinesSearchAndCategory(t *testing.T) {
	svc := newProcessFixture(t)

	// keyword narrows within the visible set
	list := svc.List(&ListInput{Role: "employee", Keyword: "orientation"})
	require.Len(t, list, 1)
	assert.Equal(t, uint(1), list[0].ID)

	// category filter stacks on top
	list = svc.List(&ListInput{Role: "employee", Category: "finance"})
	require.Len(t, list, 1)
	assert.Equal(t, uint(2), list[0].ID)

	// a keyword match outside the visible set stays hidden
	assert.Empty(t, svc.List(&ListInput{Role: "hr", Keyword: "expense"}))
}

func TestGrouped(t *testing.T) {
	svc := newProcessFixture(t)
	all := svc.List(&ListInput{Role: "admin"})

	groups := svc.Grouped(all, "category")
	require.Len(t, groups, 3)
	assert.Equal(t, "hr", groups[0].Key)

	subgroups := svc.Grouped(all, "subcategory")
	keys := make([]string, 0, len(subgroups))
	for _, g := range subgroups {
		keys = append(keys, g.Key)
	}
	assert.Contains(t, keys, "Recruiting & Onboarding")
	assert.Contains(t, keys, domain.SubcategoryDefault)
}

func TestGetHonorsVisibility(t *testing.T) {
	svc := newProcessFixture(t)

	// admins and managers see everything
	_, err := svc.Get(domain.RoleAdmin, 3)
	assert.NoError(t, err)
	_, err = svc.Get(domain.RoleManager, 3)
	assert.NoError(t, err)

	// other roles only what their visibility set allows
	_, err = svc.Get(domain.RoleHR, 1)
	assert.NoError(t, err)
	_, err = svc.Get(domain.RoleHR, 2)
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)

	_, err = svc.Get(domain.RoleAdmin, 99)
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)
}

func TestCreateProcess(t *testing.T) {
	svc := newProcessFixture(t)

	created, err := svc.Create(&CreateProcessInput{
		Title:     "Vendor Onboarding",
		Category:  "operation",
		VisibleTo: []string{"admin", "manager"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(4), created.ID)
	assert.Equal(t, "General", created.Subcategory)
	assert.Equal(t, "1.0", created.Version)

	// newest record leads the list
	list := svc.List(&ListInput{Role: "admin"})
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateProcessValidation(t *testing.T) {
	svc := newProcessFixture(t)

	_, err := svc.Create(&CreateProcessInput{Category: "hr", VisibleTo: []string{"admin"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "title required")

	_, err = svc.Create(&CreateProcessInput{Title: "X", Category: "hr"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "visibility set required")
}

func TestUpdateAndDeleteProcess(t *testing.T) {
	svc := newProcessFixture(t)

	version := "2.0"
	updated, err := svc.Update(2, &domain.ProcessPatch{Version: &version})
	require.NoError(t, err)
	assert.Equal(t, "2.0", updated.Version)

	_, err = svc.Update(99, &domain.ProcessPatch{Version: &version})
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)

	require.NoError(t, svc.Delete(2))
	assert.ErrorIs(t, svc.Delete(2), domain.ErrProcessNotFound)
}
