package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/policy"
	"github.com/leadflow/crm-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// LeadService is the single path to lead data. Direct-id operations go
// through the ownership gate; listing narrows the query scope instead.
type LeadService struct {
	leads      ports.LeadRepository
	activities ports.ActivityRepository
	users      ports.UserRepository
	events     ports.LeadEventPublisher // optional
	logger     zerolog.Logger
}

func NewLeadService(
	leads ports.LeadRepository,
	activities ports.ActivityRepository,
	users ports.UserRepository,
	events ports.LeadEventPublisher,
	logger zerolog.Logger,
) *LeadService {
	return &LeadService{
		leads:      leads,
		activities: activities,
		users:      users,
		events:     events,
		logger:     logger,
	}
}

// CreateLead stores a new lead. Any authenticated caller may create one; with
// no explicit assignee the caller becomes the assignee.
func (s *LeadService) CreateLead(ctx context.Context, caller domain.Identity, in ports.CreateLeadInput) (*domain.Lead, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, domain.NewValidationError("name and email are required")
	}

	status := in.Status
	if status == "" {
		status = domain.LeadStatusNew
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("unknown lead status")
	}

	assignee := strings.TrimSpace(in.AssignedToID)
	if assignee == "" {
		assignee = caller.ID
	}
	if err := s.checkAssignee(ctx, caller, assignee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        in.Phone,
		Company:      in.Company,
		Status:       status,
		Source:       in.Source,
		Notes:        in.Notes,
		AssignedToID: assignee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		s.logger.Error().Err(err).Msg("failed to create lead")
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.publish(ports.LeadEvent{LeadID: lead.ID, ActorID: caller.ID, Kind: ports.LeadCreated, To: string(lead.Status), Timestamp: now})
	s.logger.Info().Str("lead_id", lead.ID).Str("assigned_to", lead.AssignedToID).Str("user_id", caller.ID).Msg("lead created")
	return lead, nil
}

// ListLeads returns a page of leads visible to caller.
func (s *LeadService) ListLeads(ctx context.Context, caller domain.Identity, in ports.ListLeadsInput) (*ports.ListLeadsResult, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.NewValidationError("unknown lead status")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.leads.List(ctx, ports.LeadFilter{
		Scope:  policy.LeadScopeFor(caller),
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListLeadsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetLead returns a lead and its activity log.
func (s *LeadService) GetLead(ctx context.Context, caller domain.Identity, id string) (*ports.LeadDetail, error) {
	lead, err := s.authorizedLead(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	activities, err := s.activities.ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, fmt.Errorf("get lead: list activities: %w", err)
	}
	return &ports.LeadDetail{Lead: lead, Activities: activities}, nil
}

func (s *LeadService) UpdateLead(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	lead, err := s.authorizedLead(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.AssignedToID != nil && *patch.AssignedToID != lead.AssignedToID {
		if err := s.checkAssignee(ctx, caller, *patch.AssignedToID); err != nil {
			return nil, err
		}
	}

	before := *lead
	patch.Apply(lead)
	lead.UpdatedAt = time.Now().UTC()

	if err := s.leads.Update(ctx, lead); err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	if before.Status != lead.Status {
		s.publish(ports.LeadEvent{LeadID: lead.ID, ActorID: caller.ID, Kind: ports.LeadStatusChanged,
			From: string(before.Status), To: string(lead.Status), Timestamp: lead.UpdatedAt})
	}
	if before.AssignedToID != lead.AssignedToID {
		s.publish(ports.LeadEvent{LeadID: lead.ID, ActorID: caller.ID, Kind: ports.LeadReassigned,
			From: before.AssignedToID, To: lead.AssignedToID, Timestamp: lead.UpdatedAt})
	}

	s.logger.Info().Str("lead_id", lead.ID).Str("user_id", caller.ID).Msg("lead updated")
	return lead, nil
}

func (s *LeadService) DeleteLead(ctx context.Context, caller domain.Identity, id string) error {
	lead, err := s.authorizedLead(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.leads.Delete(ctx, lead.ID); err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			return err
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	if err := s.activities.DeleteByLead(ctx, lead.ID); err != nil {
		s.logger.Warn().Err(err).Str("lead_id", lead.ID).Msg("failed to delete lead activities")
	}
	s.publish(ports.LeadEvent{
		LeadID:    lead.ID,
		ActorID:   caller.ID,
		Kind:      ports.LeadDeleted,
		Timestamp: time.Now().UTC(),
	})

	s.logger.Info().Str("lead_id", lead.ID).Str("user_id", caller.ID).Msg("lead deleted")
	return nil
}

func (s *LeadService) AddActivity(ctx context.Context, caller domain.Identity, leadID string, in ports.CreateActivityInput) (*domain.Activity, error) {
	lead, err := s.authorizedLead(ctx, caller, leadID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if !in.Type.Valid() {
		return nil, domain.NewValidationError("unknown activity type")
	}

	activity := &domain.Activity{
		ID:          uuid.NewString(),
		LeadID:      lead.ID,
		UserID:      caller.ID,
		Type:        in.Type,
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Completed:   in.Completed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("add activity: %w", err)
	}
	return activity, nil
}

func (s *LeadService) ListActivities(ctx context.Context, caller domain.Identity, leadID string) ([]*domain.Activity, error) {
	lead, err := s.authorizedLead(ctx, caller, leadID)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// authorizedLead loads a lead by id and applies the ownership gate. A missing
// lead is reported before any access decision.
func (s *LeadService) authorizedLead(ctx context.Context, caller domain.Identity, id string) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	if err := policy.CanAccessLead(caller, lead); err != nil {
		s.logger.Warn().Str("lead_id", lead.ID).Str("user_id", caller.ID).Str("role", caller.Role.String()).Msg("lead access denied")
		return nil, err
	}
	return lead, nil
}

// checkAssignee verifies a non-self assignee exists.
func (s *LeadService) checkAssignee(ctx context.Context, caller domain.Identity, assignee string) error {
	if assignee == "" || assignee == caller.ID {
		return nil
	}
	if _, err := s.users.FindByID(ctx, assignee); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewValidationError("assigned user does not exist")
		}
		return fmt.Errorf("check assignee: %w", err)
	}
	return nil
}

func (s *LeadService) publish(e ports.LeadEvent) {
	if s.events != nil {
		s.events.Publish(e)
	}
}

func validatePatch(p domain.LeadPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.NewValidationError("name cannot be empty")
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return domain.NewValidationError("email cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.NewValidationError("unknown lead status")
	}
	return nil
}
