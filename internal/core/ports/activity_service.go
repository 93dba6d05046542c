package ports

import (
	"context"
	"time"
)

// LeadEventKind names what happened to a lead.
type LeadEventKind string

const (
	LeadCreated       LeadEventKind = "created"
	LeadStatusChanged LeadEventKind = "status_changed"
	LeadReassigned    LeadEventKind = "reassigned"
	// LeadDeleted travels through the same shard as the lead's other events,
	// so it is handled after anything still queued for that lead.
	LeadDeleted LeadEventKind = "deleted"
)

// LeadEvent is a change to a lead that is recorded asynchronously in its
// activity log.
type LeadEvent struct {
	LeadID    string
	ActorID   string
	Kind      LeadEventKind
	From      string
	To        string
	Timestamp time.Time
}

// ActivityRecorder turns lead events into system activities.
type ActivityRecorder interface {
	Record(ctx context.Context, event LeadEvent) error
}

// LeadEventPublisher hands lead events to the asynchronous recorder.
type LeadEventPublisher interface {
	Publish(event LeadEvent)
}
