package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

func TestUsers_UniqueEmail(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()

	if _, err := users.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := users.Create(ctx, &domain.User{ID: "u2", Email: "a@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := users.FindByID(ctx, "u2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUsers_ReturnsCopies(t *testing.T) {
	users := NewStore().Users()
	ctx := context.Background()
	_, _ = users.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleSalesExecutive})

	u, _ := users.FindByID(ctx, "u1")
	u.Role = domain.RoleAdmin

	again, _ := users.FindByID(ctx, "u1")
	if again.Role != domain.RoleSalesExecutive {
		t.Fatalf("mutating a returned user must not change the store")
	}
}

func TestLeads_ListFiltersAndPages(t *testing.T) {
	leads := NewStore().Leads()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, l := range []domain.Lead{
		{ID: "l1", Name: "Acme", Company: "Acme Inc", Status: domain.LeadStatusNew, AssignedToID: "alice"},
		{ID: "l2", Name: "Globex", Email: "sales@globex.test", Status: domain.LeadStatusWon, AssignedToID: "alice"},
		{ID: "l3", Name: "Initech", Status: domain.LeadStatusNew, AssignedToID: "bob"},
		{ID: "l4", Name: "Orphan", Status: domain.LeadStatusNew},
	} {
		l := l
		l.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_ = leads.Create(ctx, &l)
	}

	cases := []struct {
		name  string
		f     ports.LeadFilter
		total int64
		ids   []string
	}{
		{"alice scope newest first", ports.LeadFilter{Scope: domain.LeadScope{AssignedToID: "alice"}, Page: 1, Limit: 10}, 2, []string{"l2", "l1"}},
		{"admin all", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Page: 1, Limit: 10}, 4, []string{"l4", "l3", "l2", "l1"}},
		{"zero scope", ports.LeadFilter{Page: 1, Limit: 10}, 0, nil},
		{"status", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Status: domain.LeadStatusWon, Page: 1, Limit: 10}, 1, []string{"l2"}},
		{"search email", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Search: "GLOBEX.test", Page: 1, Limit: 10}, 1, []string{"l2"}},
		{"search company", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Search: "inc", Page: 1, Limit: 10}, 1, []string{"l1"}},
		{"second page", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Page: 2, Limit: 3}, 4, []string{"l1"}},
		{"past the end", ports.LeadFilter{Scope: domain.LeadScope{Unrestricted: true}, Page: 5, Limit: 3}, 4, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, total, err := leads.List(ctx, tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tc.total {
				t.Fatalf("expected total %d, got %d", tc.total, total)
			}
			if len(items) != len(tc.ids) {
				t.Fatalf("expected %d items, got %d", len(tc.ids), len(items))
			}
			for i, id := range tc.ids {
				if items[i].ID != id {
					t.Fatalf("item %d: expected %s, got %s", i, id, items[i].ID)
				}
			}
		})
	}
}

func TestActivities_DeleteByLead(t *testing.T) {
	activities := NewStore().Activities()
	ctx := context.Background()
	now := time.Now()

	_ = activities.Create(ctx, &domain.Activity{ID: "a1", LeadID: "l1", CreatedAt: now})
	_ = activities.Create(ctx, &domain.Activity{ID: "a2", LeadID: "l2", CreatedAt: now})
	_ = activities.Create(ctx, &domain.Activity{ID: "a3", LeadID: "l1", CreatedAt: now.Add(time.Second)})

	got, _ := activities.ListByLead(ctx, "l1")
	if len(got) != 2 || got[0].ID != "a3" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	_ = activities.DeleteByLead(ctx, "l1")
	if got, _ := activities.ListByLead(ctx, "l1"); len(got) != 0 {
		t.Fatalf("expected no activities for l1, got %d", len(got))
	}
	if got, _ := activities.ListByLead(ctx, "l2"); len(got) != 1 {
		t.Fatalf("expected l2 activity to survive, got %d", len(got))
	}
}
