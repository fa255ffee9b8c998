package repositories

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"procflow/internal/adapters/persistence/store"
	"procflow/internal/core/domain"
)

// processRepository owns the canonical ordered list of process records.
// The in-memory list is authoritative for the session; every mutation is
// written through to the store, and write failures are logged but never
// fail the mutation.
type processRepository struct {
	mu        sync.RWMutex
	processes []*domain.Process
	store     store.Store
	key       string
}

// NewProcessRepository builds a repository seeded with defaults and merges
// any persisted state over them (persisted records win by id)
func NewProcessRepository(defaults []*domain.Process, st store.Store, key string) ProcessRepository {
	r := &processRepository{
		processes: make([]*domain.Process, 0, len(defaults)),
		store:     st,
		key:       key,
	}
	for _, p := range defaults {
		r.processes = append(r.processes, p.Clone())
	}
	r.hydrate()
	return r
}

// GetAll returns the full ordered list, most recently added first
func (r *processRepository) GetAll() []*domain.Process {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(r.processes)
}

// GetByID returns the matching record, or nil when the id is absent
func (r *processRepository) GetByID(id uint) *domain.Process {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.processes {
		if p.ID == id {
			return p.Clone()
		}
	}
	return nil
}

// GetVisibleTo returns the processes whose visibility set contains role.
// An empty role sees nothing.
func (r *processRepository) GetVisibleTo(role string) []*domain.Process {
	if role == "" {
		return []*domain.Process{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make([]*domain.Process, 0)
	for _, p := range r.processes {
		if p.VisibleToRole(role) {
			visible = append(visible, p.Clone())
		}
	}
	return visible
}

// Search returns processes matching the keyword (case-insensitive substring)
// in title, description, department, owner or any step title/description.
// A nil scope searches the full collection.
func (r *processRepository) Search(keyword string, scope []*domain.Process) []*domain.Process {
	if scope == nil {
		scope = r.GetAll()
	}

	kw := strings.ToLower(keyword)
	matches := make([]*domain.Process, 0)
	for _, p := range scope {
		if processMatches(p, kw) {
			matches = append(matches, p)
		}
	}
	return matches
}

func processMatches(p *domain.Process, kw string) bool {
	if strings.Contains(strings.ToLower(p.Title), kw) ||
		strings.Contains(strings.ToLower(p.Description), kw) ||
		strings.Contains(strings.ToLower(p.Department), kw) ||
		strings.Contains(strings.ToLower(p.Owner), kw) {
		return true
	}
	for _, step := range p.Steps {
		if strings.Contains(strings.ToLower(step.Title), kw) ||
			strings.Contains(strings.ToLower(step.Description), kw) {
			return true
		}
	}
	return false
}

// FilterByCategory narrows a list to one category; "all" passes through
func (r *processRepository) FilterByCategory(scope []*domain.Process, category string) []*domain.Process {
	if category == "all" {
		return scope
	}
	filtered := make([]*domain.Process, 0)
	for _, p := range scope {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// GroupByCategory buckets processes by category in key encounter order.
// Processes without a category land in the "other" bucket.
func (r *processRepository) GroupByCategory(scope []*domain.Process) []domain.ProcessGroup {
	return groupBy(scope, func(p *domain.Process) string {
		if p.Category == "" {
			return domain.CategoryOther
		}
		return p.Category
	})
}

// GroupBySubcategory buckets processes by subcategory in key encounter order.
// Processes without a subcategory land in the "default" bucket.
func (r *processRepository) GroupBySubcategory(scope []*domain.Process) []domain.ProcessGroup {
	return groupBy(scope, func(p *domain.Process) string {
		if p.Subcategory == "" {
			return domain.SubcategoryDefault
		}
		return p.Subcategory
	})
}

func groupBy(scope []*domain.Process, keyOf func(*domain.Process) string) []domain.ProcessGroup {
	groups := make([]domain.ProcessGroup, 0)
	index := make(map[string]int)

	for _, p := range scope {
		key := keyOf(p)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.ProcessGroup{Key: key})
		}
		groups[i].Processes = append(groups[i].Processes, p)
	}
	return groups
}

// Add inserts the record at the front of the list and persists.
// A zero id gets max(existing ids)+1; missing timestamps are stamped now.
// Steps are renumbered to stay contiguous from 1.
func (r *processRepository) Add(p *domain.Process) *domain.Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := p.Clone()
	if record.ID == 0 {
		record.ID = r.nextID()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	renumberSteps(record)

	r.processes = append([]*domain.Process{record}, r.processes...)
	r.persist()
	return record.Clone()
}

// Update shallow-merges the patch onto the record and persists.
// Returns nil when the id is absent.
func (r *processRepository) Update(id uint, patch *domain.ProcessPatch) *domain.Process {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.processes {
		if p.ID == id {
			patch.Apply(p)
			renumberSteps(p)
			r.persist()
			return p.Clone()
		}
	}
	return nil
}

// Delete removes the record permanently and persists.
// Reports whether a record was removed.
func (r *processRepository) Delete(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.processes {
		if p.ID == id {
			r.processes = append(r.processes[:i], r.processes[i+1:]...)
			r.persist()
			return true
		}
	}
	return false
}

// Len returns the number of records in the collection
func (r *processRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processes)
}

// nextID returns max(existing ids)+1. Callers must hold the lock.
func (r *processRepository) nextID() uint {
	var max uint
	for _, p := range r.processes {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// renumberSteps keeps step numbers contiguous starting at 1
func renumberSteps(p *domain.Process) {
	for i := range p.Steps {
		p.Steps[i].Number = i + 1
	}
}

func (r *processRepository) snapshot(list []*domain.Process) []*domain.Process {
	out := make([]*domain.Process, 0, len(list))
	for _, p := range list {
		out = append(out, p.Clone())
	}
	return out
}

// persist writes the full list through to the store. Failures are logged
// and retried once after clearing the key; the in-memory list stays
// authoritative either way. Callers must hold the lock.
func (r *processRepository) persist() {
	body, err := json.Marshal(r.processes)
	if err != nil {
		log.Printf("❌ Failed to serialize processes: %v", err)
		return
	}

	if err := r.store.Put(r.key, body); err != nil {
		log.Printf("⚠️ Failed to persist processes: %v", err)
		if derr := r.store.Delete(r.key); derr == nil {
			if rerr := r.store.Put(r.key, body); rerr != nil {
				log.Printf("❌ Retry persist also failed: %v", rerr)
			}
		}
	}
}

// hydrate merges persisted records over the constructor defaults.
// Persisted records come first in their stored order; defaults not present
// in storage are appended. A corrupt blob is dropped and the defaults kept.
func (r *processRepository) hydrate() {
	body, err := r.store.Get(r.key)
	if err != nil {
		if err != store.ErrKeyNotFound {
			log.Printf("⚠️ Failed to load processes from store: %v", err)
		}
		return
	}

	var saved []*domain.Process
	if err := json.Unmarshal(body, &saved); err != nil {
		log.Printf("⚠️ Corrupt process blob, falling back to defaults: %v", err)
		r.store.Delete(r.key)
		return
	}

	savedIDs := make(map[uint]bool, len(saved))
	for _, p := range saved {
		savedIDs[p.ID] = true
	}

	merged := saved
	for _, p := range r.processes {
		if !savedIDs[p.ID] {
			merged = append(merged, p)
		}
	}
	r.processes = merged
}
