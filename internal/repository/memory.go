package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"school-service/internal/model"
)

// MemoryStore keeps users and schools in process memory. It is used with
// STORE_DRIVER=memory and by tests; contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.User // keyed by email
	schools map[string]model.School
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]model.User),
		schools: make(map[string]model.School),
	}
}

// Users returns the store's user repository
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Schools returns the store's school repository
func (s *MemoryStore) Schools() SchoolRepository { return memorySchools{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Email]; exists {
		return ErrDuplicate
	}
	r.s.users[user.Email] = *user
	return nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r memoryUsers) List(_ context.Context) ([]model.User, error) {
	return r.filter(func(model.User) bool { return true }), nil
}

func (r memoryUsers) ListBySchool(_ context.Context, schoolID string) ([]model.User, error) {
	return r.filter(func(u model.User) bool {
		return u.SchoolID != nil && *u.SchoolID == schoolID
	}), nil
}

func (r memoryUsers) filter(keep func(model.User) bool) []model.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.User{}
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r memoryUsers) SetSchool(_ context.Context, userID string, schoolID *string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for email, u := range r.s.users {
		if u.ID.Hex() != userID {
			continue
		}
		if schoolID != nil {
			id := *schoolID
			u.SchoolID = &id
		} else {
			u.SchoolID = nil
		}
		updated := at
		u.Updated = &updated
		r.s.users[email] = u
		return 1, nil
	}
	return 0, nil
}

type memorySchools struct{ s *MemoryStore }

func (r memorySchools) Create(_ context.Context, school *model.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := school.ID.Hex()
	if _, exists := r.s.schools[key]; exists {
		return ErrDuplicate
	}
	r.s.schools[key] = *school
	return nil
}

func (r memorySchools) List(_ context.Context) ([]model.School, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.School, 0, len(r.s.schools))
	for _, school := range r.s.schools {
		out = append(out, school)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}
