package ports

import (
	"context"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// ActivityRepository persists the activity log of leads.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	// ListByLead returns the lead's activities, newest first.
	ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error)
	DeleteByLead(ctx context.Context, leadID string) error
}
