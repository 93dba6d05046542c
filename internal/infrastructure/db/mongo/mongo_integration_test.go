//go:build integration

package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

// setupMongo starts a throwaway MongoDB container and returns a database
// with indexes in place.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	client, db, err := Connect(ctx, Config{
		URI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database: "crm_test",
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return db
}

func TestMongo_UserRepository(t *testing.T) {
	db := setupMongo(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	alice := &domain.User{ID: uuid.NewString(), Email: "alice@example.com", Name: "Alice", PasswordHash: "h", Role: domain.RoleSalesExecutive, CreatedAt: now, UpdatedAt: now}

	if _, err := repo.Create(ctx, alice); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := *alice
	dup.ID = uuid.NewString()
	if _, err := repo.Create(ctx, &dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != alice.ID || got.Role != domain.RoleSalesExecutive {
		t.Fatalf("FindByEmail: %+v %v", got, err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMongo_LeadRepository_ScopeAndSearch(t *testing.T) {
	db := setupMongo(t)
	leads := NewLeadRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	fixtures := []*domain.Lead{
		{ID: "l1", Name: "Acme", Email: "a@acme.test", Company: "Acme Inc", Status: domain.LeadStatusNew, AssignedToID: "alice", CreatedAt: base},
		{ID: "l2", Name: "Globex", Email: "g@globex.test", Status: domain.LeadStatusWon, AssignedToID: "alice", CreatedAt: base.Add(time.Minute)},
		{ID: "l3", Name: "Initech", Email: "i@initech.test", Status: domain.LeadStatusNew, AssignedToID: "bob", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "l4", Name: "Orphan", Email: "o@orphan.test", Status: domain.LeadStatusNew, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, l := range fixtures {
		if err := leads.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page := func(scope domain.LeadScope, search string) ([]*domain.Lead, int64) {
		items, total, err := leads.List(ctx, ports.LeadFilter{Scope: scope, Search: search, Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		return items, total
	}

	items, total := page(domain.LeadScope{AssignedToID: "alice"}, "")
	if total != 2 || items[0].ID != "l2" {
		t.Fatalf("alice scope: total=%d first=%s", total, items[0].ID)
	}

	if _, total := page(domain.LeadScope{Unrestricted: true}, ""); total != 4 {
		t.Fatalf("admin scope: expected 4, got %d", total)
	}

	if _, total := page(domain.LeadScope{}, ""); total != 0 {
		t.Fatalf("zero scope: expected 0, got %d", total)
	}

	items, total = page(domain.LeadScope{Unrestricted: true}, "ACME")
	if total != 1 || items[0].ID != "l1" {
		t.Fatalf("search: expected l1, got %d", total)
	}

	if err := leads.Delete(ctx, "l4"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := leads.Delete(ctx, "l4"); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}
