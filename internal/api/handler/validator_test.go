package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/leadflow/crm-api/internal/core/domain"
)

func TestValidator_DomainTags(t *testing.T) {
	v := NewValidator()
	status := "ARCHIVED"

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"unknown role", &registerRequest{Email: "a@b.co", Password: "secret1", Name: "A", Role: "ROOT"}, "role must be one of: ADMIN"},
		{"unknown status", &createLeadRequest{Name: "Acme", Email: "a@b.co", Status: "ARCHIVED"}, "status must be one of"},
		{"unknown status on patch", &updateLeadRequest{Status: &status}, "status must be one of"},
		{"unknown activity type", &createActivityRequest{Type: "SMS", Title: "x"}, "type must be one of"},
		{"query field name", &listLeadsQuery{Status: "nope"}, "status must be one of"},
		{"json field name", &createLeadRequest{Name: "Acme"}, "email is required"},
		{"short password", &registerRequest{Email: "a@b.co", Password: "abc", Name: "A"}, "password must be at least 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestValidator_AcceptsDomainValues(t *testing.T) {
	v := NewValidator()
	status := "WON"

	for _, in := range []any{
		&registerRequest{Email: "a@b.co", Password: "secret1", Name: "A", Role: "SALES_MANAGER"},
		&registerRequest{Email: "a@b.co", Password: "secret1", Name: "A"},
		&registerRequest{Email: "a@b.co", Password: "secret1", Name: "A", Role: "sales_executive"},
		&createLeadRequest{Name: "Acme", Email: "a@b.co", Status: "QUALIFIED"},
		&updateLeadRequest{Status: &status},
		&updateLeadRequest{},
		&createActivityRequest{Type: "MEETING", Title: "Kickoff"},
		&listLeadsQuery{Page: 2, Limit: 20, Status: "NEW"},
	} {
		if err := v.Validate(in); err != nil {
			t.Fatalf("%T: unexpected error %v", in, err)
		}
	}
}
