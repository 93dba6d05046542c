package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type stubLeadRepo struct {
	mu    sync.Mutex
	leads map[string]*domain.Lead
	last  ports.LeadFilter
}

func newStubLeadRepo(leads ...*domain.Lead) *stubLeadRepo {
	r := &stubLeadRepo{leads: make(map[string]*domain.Lead)}
	for _, l := range leads {
		r.leads[l.ID] = cloneLead(l)
	}
	return r
}

func cloneLead(l *domain.Lead) *domain.Lead {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

func (r *stubLeadRepo) Create(_ context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	return cloneLead(l), nil
}

func (r *stubLeadRepo) List(_ context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = f
	var out []*domain.Lead
	for _, l := range r.leads {
		if !f.Scope.Includes(l) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneLead(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubLeadRepo) Update(_ context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[lead.ID]; !ok {
		return domain.ErrLeadNotFound
	}
	r.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *stubLeadRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

type stubActivityRepo struct {
	mu         sync.Mutex
	activities []*domain.Activity
}

func (r *stubActivityRepo) Create(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.activities = append(r.activities, &clone)
	return nil
}

func (r *stubActivityRepo) ListByLead(_ context.Context, leadID string) ([]*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Activity
	for i := len(r.activities) - 1; i >= 0; i-- {
		if r.activities[i].LeadID == leadID {
			clone := *r.activities[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubActivityRepo) DeleteByLead(_ context.Context, leadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.LeadID != leadID {
			kept = append(kept, a)
		}
	}
	r.activities = kept
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.LeadEvent
}

func (p *recordingPublisher) Publish(e ports.LeadEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []ports.LeadEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.LeadEventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

// fastHasher keeps tests quick; bcrypt itself is covered in password_test.go.
func fastHasher() *BcryptHasher {
	return NewBcryptHasher(4)
}
