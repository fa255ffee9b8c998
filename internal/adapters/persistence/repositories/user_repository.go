package repositories

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"procflow/internal/adapters/persistence/store"
	"procflow/internal/core/domain"
)

// userRepository owns the canonical list of user records. Soft-deleted
// users (IsActive=false) stay in the list and in storage but are excluded
// from every lookup; business rules (conflicts, last-admin protection,
// self-modification) live in the services layer.
type userRepository struct {
	mu    sync.RWMutex
	users []*domain.User
	store store.Store
	key   string
}

// NewUserRepository builds a repository seeded with defaults and merges any
// persisted state over them (persisted records win by id)
func NewUserRepository(defaults []*domain.User, st store.Store, key string) UserRepository {
	r := &userRepository{
		users: make([]*domain.User, 0, len(defaults)),
		store: st,
		key:   key,
	}
	for _, u := range defaults {
		r.users = append(r.users, u.Clone())
	}
	r.hydrate()
	return r
}

// All returns every active user in insertion order
func (r *userRepository) All() []*domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, u.Clone())
		}
	}
	return out
}

// GetByID returns the active user with the given id, or nil
func (r *userRepository) GetByID(id uint) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id && u.IsActive {
			return u.Clone()
		}
	}
	return nil
}

// GetByUsername returns the active user with the given username
// (case-insensitive), or nil
func (r *userRepository) GetByUsername(username string) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.IsActive && strings.EqualFold(u.Username, username) {
			return u.Clone()
		}
	}
	return nil
}

// GetByRole returns the first active user holding the role, or nil.
// Used by the simplified role-card login flow.
func (r *userRepository) GetByRole(role domain.Role) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.IsActive && u.Role == role {
			return u.Clone()
		}
	}
	return nil
}

// Search returns active users matching the keyword in username, name,
// email, department or role. An empty keyword returns everyone.
func (r *userRepository) Search(keyword string) []*domain.User {
	if keyword == "" {
		return r.All()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	kw := strings.ToLower(keyword)
	matches := make([]*domain.User, 0)
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), kw) ||
			strings.Contains(strings.ToLower(u.Name), kw) ||
			strings.Contains(strings.ToLower(u.Email), kw) ||
			strings.Contains(strings.ToLower(u.Department), kw) ||
			strings.Contains(strings.ToLower(string(u.Role)), kw) {
			matches = append(matches, u.Clone())
		}
	}
	return matches
}

// CountActiveAdmins returns the number of active admin accounts
func (r *userRepository) CountActiveAdmins() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.users {
		if u.IsActive && u.Role == domain.RoleAdmin {
			count++
		}
	}
	return count
}

// Stats summarizes the active user population by role and department
func (r *userRepository) Stats() *domain.UserStats {
	active := r.All()

	stats := &domain.UserStats{
		Total:        len(active),
		ByRole:       make(map[string]int),
		ByDepartment: make(map[string]int),
	}
	for _, u := range active {
		stats.ByRole[string(u.Role)]++
		stats.ByDepartment[u.Department]++
	}
	return stats
}

// NextID returns max(existing ids, 0)+1, counting soft-deleted users too
// so ids are never reused
func (r *userRepository) NextID() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max uint
	for _, u := range r.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// Insert appends the record and persists
func (r *userRepository) Insert(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := u.Clone()
	r.users = append(r.users, record)
	r.persist()
	return record.Clone()
}

// Save replaces the stored record with the same id and persists.
// Reports whether a record was replaced. Unlike the lookups, Save also
// reaches soft-deleted records so deactivation itself can be stored.
func (r *userRepository) Save(u *domain.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.users {
		if existing.ID == u.ID {
			r.users[i] = u.Clone()
			r.persist()
			return true
		}
	}
	return false
}

// Remove hard-deletes the record and persists. Reports whether a record
// was removed. Only used by the explicit permanent-delete flow.
func (r *userRepository) Remove(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			r.persist()
			return true
		}
	}
	return false
}

// ResetToDefaults throws away the whole collection, clears storage and
// restores the given defaults
func (r *userRepository) ResetToDefaults(defaults []*domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(r.key); err != nil {
		log.Printf("⚠️ Failed to clear user storage: %v", err)
	}
	r.users = make([]*domain.User, 0, len(defaults))
	for _, u := range defaults {
		r.users = append(r.users, u.Clone())
	}
	r.persist()
}

// persist writes the full list through to the store with one clear-and-retry
// on failure. Callers must hold the lock.
func (r *userRepository) persist() {
	body, err := json.Marshal(r.users)
	if err != nil {
		log.Printf("❌ Failed to serialize users: %v", err)
		return
	}

	if err := r.store.Put(r.key, body); err != nil {
		log.Printf("⚠️ Failed to persist users: %v", err)
		if derr := r.store.Delete(r.key); derr == nil {
			if rerr := r.store.Put(r.key, body); rerr != nil {
				log.Printf("❌ Retry persist also failed: %v", rerr)
			}
		}
	}
}

// hydrate merges persisted records over the constructor defaults by id.
// A corrupt blob is dropped and the defaults kept.
func (r *userRepository) hydrate() {
	body, err := r.store.Get(r.key)
	if err != nil {
		if err != store.ErrKeyNotFound {
			log.Printf("⚠️ Failed to load users from store: %v", err)
		}
		return
	}

	var saved []*domain.User
	if err := json.Unmarshal(body, &saved); err != nil {
		log.Printf("⚠️ Corrupt user blob, falling back to defaults: %v", err)
		r.store.Delete(r.key)
		return
	}

	savedIDs := make(map[uint]bool, len(saved))
	for _, u := range saved {
		savedIDs[u.ID] = true
	}

	merged := saved
	for _, u := range r.users {
		if !savedIDs[u.ID] {
			merged = append(merged, u)
		}
	}
	r.users = merged
}
