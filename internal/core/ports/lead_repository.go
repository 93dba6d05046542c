package ports

import (
	"context"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// LeadFilter carries all query parameters for listing leads.
// Scope is always decided by the access policy, never by the store.
type LeadFilter struct {
	Scope  domain.LeadScope
	Status domain.LeadStatus // optional
	Search string            // optional: case-insensitive match on name, email or company
	Page   int               // 1-based
	Limit  int
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	// FindByID returns domain.ErrLeadNotFound when no lead has the id.
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	// List returns a page of leads matching filter, newest first, and the total count.
	List(ctx context.Context, filter LeadFilter) ([]*domain.Lead, int64, error)
	// Update persists every field of lead and returns domain.ErrLeadNotFound
	// when it no longer exists.
	Update(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id string) error
}
