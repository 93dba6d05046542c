package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

type stubLeadService struct {
	ports.LeadService // unimplemented methods panic

	createFn func(ctx context.Context, caller domain.Identity, in ports.CreateLeadInput) (*domain.Lead, error)
	listFn   func(ctx context.Context, caller domain.Identity, in ports.ListLeadsInput) (*ports.ListLeadsResult, error)
	getFn    func(ctx context.Context, caller domain.Identity, id string) (*ports.LeadDetail, error)
	updateFn func(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error)
	deleteFn func(ctx context.Context, caller domain.Identity, id string) error
}

func (s *stubLeadService) CreateLead(ctx context.Context, caller domain.Identity, in ports.CreateLeadInput) (*domain.Lead, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubLeadService) ListLeads(ctx context.Context, caller domain.Identity, in ports.ListLeadsInput) (*ports.ListLeadsResult, error) {
	return s.listFn(ctx, caller, in)
}

func (s *stubLeadService) GetLead(ctx context.Context, caller domain.Identity, id string) (*ports.LeadDetail, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubLeadService) UpdateLead(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubLeadService) DeleteLead(ctx context.Context, caller domain.Identity, id string) error {
	return s.deleteFn(ctx, caller, id)
}

var aliceIdentity = domain.Identity{ID: "alice", Email: "alice@example.com", Role: domain.RoleSalesExecutive}

func withLeadID(c echo.Context, id string) {
	c.SetPath("/api/leads/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func authed(req *http.Request, id domain.Identity) *http.Request {
	return req.WithContext(domain.WithPrincipal(req.Context(), domain.Principal{Identity: id}))
}

func TestLeadHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubLeadService{
		createFn: func(ctx context.Context, caller domain.Identity, in ports.CreateLeadInput) (*domain.Lead, error) {
			if caller.ID != "alice" {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			if in.Name != "Acme" || in.Status != domain.LeadStatusContacted || in.AssignedToID != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Lead{ID: "l1", Name: in.Name, Email: in.Email, Status: in.Status, AssignedToID: caller.ID, CreatedAt: time.Now()}, nil
		},
	}
	handler := NewLeadHandler(stub)

	req := authed(jsonRequest(http.MethodPost, "/api/leads", `{"name":"Acme","email":"buyer@acme.test","status":"CONTACTED"}`), aliceIdentity)
	rec := httptest.NewRecorder()

	if err := handler.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp leadEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Lead.ID != "l1" || resp.Lead.AssignedToID != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLeadHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	handler := NewLeadHandler(&stubLeadService{})

	for _, body := range []string{
		`{"email":"buyer@acme.test"}`,
		`{"name":"Acme","email":"nope"}`,
		`{"name":"Acme","email":"buyer@acme.test","status":"MAYBE"}`,
	} {
		req := authed(jsonRequest(http.MethodPost, "/api/leads", body), aliceIdentity)
		if err := handler.Create(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("body %s: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestLeadHandler_List_PassesQuery(t *testing.T) {
	e := newEcho()
	stub := &stubLeadService{
		listFn: func(ctx context.Context, caller domain.Identity, in ports.ListLeadsInput) (*ports.ListLeadsResult, error) {
			if in.Page != 2 || in.Limit != 5 || in.Status != domain.LeadStatusWon || in.Search != "acme" {
				t.Fatalf("unexpected query: %+v", in)
			}
			return &ports.ListLeadsResult{
				Items: []*domain.Lead{{ID: "l1", Status: domain.LeadStatusWon}},
				Total: 6, Page: 2, Limit: 5, TotalPages: 2,
			}, nil
		},
	}
	handler := NewLeadHandler(stub)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/leads?page=2&limit=5&status=WON&search=acme", nil), aliceIdentity)
	rec := httptest.NewRecorder()

	if err := handler.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp leadListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 6 || len(resp.Leads) != 1 || resp.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLeadHandler_Get_PropagatesPolicyErrors(t *testing.T) {
	e := newEcho()

	for _, want := range []error{domain.ErrForbidden, domain.ErrLeadNotFound} {
		stub := &stubLeadService{
			getFn: func(ctx context.Context, caller domain.Identity, id string) (*ports.LeadDetail, error) {
				if id != "l1" {
					t.Fatalf("unexpected id %q", id)
				}
				return nil, want
			},
		}
		handler := NewLeadHandler(stub)

		c := e.NewContext(authed(httptest.NewRequest(http.MethodGet, "/api/leads/l1", nil), aliceIdentity), httptest.NewRecorder())
		withLeadID(c, "l1")

		if err := handler.Get(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestLeadHandler_Update_BuildsPatch(t *testing.T) {
	e := newEcho()
	stub := &stubLeadService{
		updateFn: func(ctx context.Context, caller domain.Identity, id string, patch domain.LeadPatch) (*domain.Lead, error) {
			if patch.Status == nil || *patch.Status != domain.LeadStatusQualified {
				t.Fatalf("expected status in patch, got %+v", patch)
			}
			if patch.Name != nil || patch.AssignedToID != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.Lead{ID: id, Status: *patch.Status}, nil
		},
	}
	handler := NewLeadHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(authed(jsonRequest(http.MethodPut, "/api/leads/l1", `{"status":"QUALIFIED"}`), aliceIdentity), rec)
	withLeadID(c, "l1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLeadHandler_Delete(t *testing.T) {
	e := newEcho()
	deleted := ""
	handler := NewLeadHandler(&stubLeadService{
		deleteFn: func(ctx context.Context, caller domain.Identity, id string) error {
			deleted = id
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(authed(httptest.NewRequest(http.MethodDelete, "/api/leads/l1", nil), aliceIdentity), rec)
	withLeadID(c, "l1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "l1" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected delete: id=%q code=%d", deleted, rec.Code)
	}
}

func TestLeadHandler_RequiresIdentity(t *testing.T) {
	e := newEcho()
	handler := NewLeadHandler(&stubLeadService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/leads", nil), httptest.NewRecorder())
	if err := handler.List(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
