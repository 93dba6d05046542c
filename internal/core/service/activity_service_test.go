package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

func TestActivityService_Record(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(newStubLeadRepo(&domain.Lead{ID: "l1"}), repo, zerolog.Nop())
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	events := []ports.LeadEvent{
		{LeadID: "l1", ActorID: "alice", Kind: ports.LeadCreated, To: "NEW", Timestamp: ts},
		{LeadID: "l1", ActorID: "admin", Kind: ports.LeadStatusChanged, From: "NEW", To: "WON", Timestamp: ts.Add(time.Minute)},
		{LeadID: "l1", ActorID: "admin", Kind: ports.LeadReassigned, From: "alice", To: "bob", Timestamp: ts.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := svc.Record(context.Background(), e); err != nil {
			t.Fatalf("Record(%s) returned error: %v", e.Kind, err)
		}
	}

	got, _ := repo.ListByLead(context.Background(), "l1")
	if len(got) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(got))
	}
	for _, a := range got {
		if a.Type != domain.ActivityNote || !a.Completed {
			t.Fatalf("expected completed NOTE activity, got %+v", a)
		}
	}
	if got[1].Title != "Status changed from NEW to WON" || got[1].UserID != "admin" {
		t.Fatalf("unexpected status activity: %+v", got[1])
	}
	if !got[2].CreatedAt.Equal(ts) {
		t.Fatalf("expected event timestamp to be kept, got %v", got[2].CreatedAt)
	}
}

func TestActivityService_UnknownKind(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(newStubLeadRepo(&domain.Lead{ID: "l1"}), repo, zerolog.Nop())

	if err := svc.Record(context.Background(), ports.LeadEvent{LeadID: "l1", Kind: "archived"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected nothing to be stored")
	}
}

func TestActivityService_SkipsDeletedLead(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(newStubLeadRepo(), repo, zerolog.Nop())

	err := svc.Record(context.Background(), ports.LeadEvent{LeadID: "gone", Kind: ports.LeadCreated, To: "NEW", Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("expected a missing lead to be skipped, got %v", err)
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected no activity for a missing lead, got %d", len(repo.activities))
	}
}

func TestActivityService_DeletedEventPurges(t *testing.T) {
	ctx := context.Background()
	repo := &stubActivityRepo{}
	_ = repo.Create(ctx, &domain.Activity{ID: "a1", LeadID: "l1", Title: "Lead created"})
	_ = repo.Create(ctx, &domain.Activity{ID: "a2", LeadID: "l2", Title: "Lead created"})
	svc := NewActivityService(newStubLeadRepo(), repo, zerolog.Nop())

	if err := svc.Record(ctx, ports.LeadEvent{LeadID: "l1", Kind: ports.LeadDeleted}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if got, _ := repo.ListByLead(ctx, "l1"); len(got) != 0 {
		t.Fatalf("expected l1 activities to be purged, got %d", len(got))
	}
	if got, _ := repo.ListByLead(ctx, "l2"); len(got) != 1 {
		t.Fatalf("expected l2 activity to survive, got %d", len(got))
	}
}
