package repositories

import (
	"testing"

	"procflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUsers() []*domain.User {
	return []*domain.User{
		{ID: 1, Username: "admin", Password: "123456", Role: domain.RoleAdmin, Department: "Administration", Name: "System Administrator", IsActive: true},
		{ID: 2, Username: "hr", Password: "123456", Role: domain.RoleHR, Department: "Human Resources", Name: "HR Specialist", IsActive: true},
		{ID: 3, Username: "bob", Password: "123456", Role: domain.RoleEmployee, Department: "Technology", Name: "Bob", IsActive: false},
	}
}

func TestUserRepositoryLookupsSkipInactive(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")

	assert.Len(t, repo.All(), 2)
	assert.Nil(t, repo.GetByID(3))
	assert.Nil(t, repo.GetByUsername("bob"))
	assert.Nil(t, repo.GetByRole(domain.RoleEmployee))
}

func TestUserRepositoryGetByUsernameCaseInsensitive(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")

	user := repo.GetByUsername("ADMIN")
	require.NotNil(t, user)
	assert.Equal(t, uint(1), user.ID)
}

func TestUserRepositorySearch(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")

	matches := repo.Search("human")
	require.Len(t, matches, 1)
	assert.Equal(t, "hr", matches[0].Username)

	// empty keyword returns every active user
	assert.Len(t, repo.Search(""), 2)

	// inactive users never match
	assert.Empty(t, repo.Search("bob"))
}

func TestUserRepositoryNextIDCountsInactive(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")
	assert.Equal(t, uint(4), repo.NextID(), "soft-deleted ids are never reused")
}

func TestUserRepositorySaveReachesInactive(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")

	// Save by id works even when the record is soft-deleted
	assert.True(t, repo.Save(&domain.User{ID: 3, Username: "bob", Role: domain.RoleEmployee, IsActive: false, Name: "Robert"}))
	assert.Nil(t, repo.GetByID(3))

	assert.False(t, repo.Save(&domain.User{ID: 99}))
}

func TestUserRepositoryStats(t *testing.T) {
	repo := NewUserRepository(sampleUsers(), testStore(t), "users")

	stats := repo.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByRole["admin"])
	assert.Equal(t, 1, stats.ByDepartment["Human Resources"])
	assert.Zero(t, stats.ByRole["employee"], "inactive users are not counted")
}

func TestUserRepositoryResetToDefaults(t *testing.T) {
	st := testStore(t)
	repo := NewUserRepository(sampleUsers(), st, "users")

	repo.Insert(&domain.User{ID: 10, Username: "extra", Role: domain.RoleSales, IsActive: true})
	require.NotNil(t, repo.GetByID(10))

	repo.ResetToDefaults(sampleUsers())
	assert.Nil(t, repo.GetByID(10))
	assert.Len(t, repo.All(), 2)

	// reset state is what a fresh repository hydrates
	reloaded := NewUserRepository(sampleUsers(), st, "users")
	assert.Nil(t, reloaded.GetByID(10))
}

func TestUserRepositoryHydrateMergesSavedOverDefaults(t *testing.T) {
	st := testStore(t)

	repo := NewUserRepository(sampleUsers(), st, "users")
	repo.Insert(&domain.User{ID: 4, Username: "carol", Role: domain.RoleFinance, IsActive: true})

	reloaded := NewUserRepository(sampleUsers(), st, "users")
	assert.NotNil(t, reloaded.GetByID(4))
	assert.NotNil(t, reloaded.GetByUsername("admin"))
}
