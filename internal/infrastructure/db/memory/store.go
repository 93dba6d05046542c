// Package memory is a process-local store driver. It backs development runs
// and HTTP tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

// Store holds users, leads and activities behind one lock. Records are
// copied in and out so callers never share memory with the store.
type Store struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	leads      map[string]domain.Lead
	activities []domain.Activity
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		leads: make(map[string]domain.Lead),
	}
}

// Users returns the store as a ports.UserRepository.
func (s *Store) Users() ports.UserRepository { return userRepo{s} }

// Leads returns the store as a ports.LeadRepository.
func (s *Store) Leads() ports.LeadRepository { return leadRepo{s} }

// Activities returns the store as a ports.ActivityRepository.
func (s *Store) Activities() ports.ActivityRepository { return activityRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

type userRepo struct{ s *Store }

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.s.users[user.ID] = *user
	created := *user
	return &created, nil
}

func (r userRepo) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type leadRepo struct{ s *Store }

func (r leadRepo) Create(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.leads[lead.ID] = *lead
	return nil
}

func (r leadRepo) FindByID(_ context.Context, id string) (*domain.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	return &l, nil
}

func (r leadRepo) List(_ context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	matched := make([]*domain.Lead, 0)
	for _, l := range r.s.leads {
		if !f.Scope.Includes(&l) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if search != "" && !containsFold(search, l.Name, l.Email, l.Company) {
			continue
		}
		l := l
		matched = append(matched, &l)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start < 0 || start >= len(matched) {
		return []*domain.Lead{}, total, nil
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r leadRepo) Update(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[lead.ID]; !ok {
		return domain.ErrLeadNotFound
	}
	r.s.leads[lead.ID] = *lead
	return nil
}

func (r leadRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.s.leads, id)
	return nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Create(_ context.Context, a *domain.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activities = append(r.s.activities, *a)
	return nil
}

// ListByLead returns newest first; ties keep the most recently inserted first.
func (r activityRepo) ListByLead(_ context.Context, leadID string) ([]*domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Activity, 0)
	for i := len(r.s.activities) - 1; i >= 0; i-- {
		if r.s.activities[i].LeadID == leadID {
			a := r.s.activities[i]
			out = append(out, &a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r activityRepo) DeleteByLead(_ context.Context, leadID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.activities[:0]
	for _, a := range r.s.activities {
		if a.LeadID != leadID {
			kept = append(kept, a)
		}
	}
	r.s.activities = kept
	return nil
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
