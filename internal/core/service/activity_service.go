package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

type activityService struct {
	leads      ports.LeadRepository
	activities ports.ActivityRepository
	log        zerolog.Logger
}

// NewActivityService returns an ActivityRecorder that writes lead events to
// the activity log as NOTE entries.
func NewActivityService(leads ports.LeadRepository, activities ports.ActivityRepository, log zerolog.Logger) ports.ActivityRecorder {
	return &activityService{leads: leads, activities: activities, log: log}
}

// Record persists a single lead event. Events for a lead that no longer
// exists are skipped, and a deleted event purges whatever was written for
// the lead in the meantime.
func (s *activityService) Record(ctx context.Context, e ports.LeadEvent) error {
	if e.Kind == ports.LeadDeleted {
		if err := s.activities.DeleteByLead(ctx, e.LeadID); err != nil {
			return fmt.Errorf("purge activities: %w", err)
		}
		return nil
	}

	title, description := describe(e)
	if title == "" {
		return fmt.Errorf("record activity: unknown event kind %q", e.Kind)
	}

	if _, err := s.leads.FindByID(ctx, e.LeadID); err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			s.log.Debug().Str("lead_id", e.LeadID).Str("kind", string(e.Kind)).Msg("lead gone, activity skipped")
			return nil
		}
		return fmt.Errorf("record activity: load lead: %w", err)
	}

	activity := &domain.Activity{
		ID:          uuid.NewString(),
		LeadID:      e.LeadID,
		UserID:      e.ActorID,
		Type:        domain.ActivityNote,
		Title:       title,
		Description: description,
		Completed:   true,
		CreatedAt:   e.Timestamp.UTC(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("lead_id", e.LeadID).
		Str("kind", string(e.Kind)).
		Msg("lead activity recorded")
	return nil
}

func describe(e ports.LeadEvent) (title, description string) {
	switch e.Kind {
	case ports.LeadCreated:
		return "Lead created", fmt.Sprintf("Created with status %s", e.To)
	case ports.LeadStatusChanged:
		return fmt.Sprintf("Status changed from %s to %s", e.From, e.To), ""
	case ports.LeadReassigned:
		from := e.From
		if from == "" {
			from = "nobody"
		}
		return "Lead reassigned", fmt.Sprintf("Reassigned from %s to %s", from, e.To)
	default:
		return "", ""
	}
}
