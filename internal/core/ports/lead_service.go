package ports

import (
	"context"
	"time"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// CreateLeadInput carries the data needed to create a lead.
type CreateLeadInput struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Status       domain.LeadStatus // empty = NEW
	Source       string
	Notes        string
	AssignedToID string // empty = the caller
}

// ListLeadsInput carries the query parameters of the list endpoint.
type ListLeadsInput struct {
	Status domain.LeadStatus
	Search string
	Page   int
	Limit  int
}

// ListLeadsResult is returned by ListLeads.
type ListLeadsResult struct {
	Items      []*domain.Lead
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LeadDetail is a lead together with its activity log.
type LeadDetail struct {
	Lead       *domain.Lead
	Activities []*domain.Activity
}

// CreateActivityInput carries a user-authored activity.
type CreateActivityInput struct {
	Type        domain.ActivityType
	Title       string
	Description string
	DueDate     *time.Time
	Completed   bool
}

// LeadService defines use-case operations on leads. Every method takes the
// caller's identity and applies the lead access policy.
type LeadService interface {
	CreateLead(ctx context.Context, caller domain.Identity, input CreateLeadInput) (*domain.Lead, error)
	ListLeads(ctx context.Context, caller domain.Identity, input ListLeadsInput) (*ListLeadsResult, error)
	GetLead(ctx context.Context, caller domain.Identity, id string) (*LeadDetail, error)
	UpdateLead(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error)
	DeleteLead(ctx context.Context, caller domain.Identity, id string) error
	AddActivity(ctx context.Context, caller domain.Identity, leadID string, input CreateActivityInput) (*domain.Activity, error)
	ListActivities(ctx context.Context, caller domain.Identity, leadID string) ([]*domain.Activity, error)
}
