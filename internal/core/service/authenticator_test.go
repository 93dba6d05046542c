package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/core/domain"
)

func newAuthenticatorFixture(t *testing.T) (*Authenticator, *TokenService, *stubUserRepo, *stubRevoker) {
	t.Helper()
	tokens := newTokenService(t)
	users := newStubUserRepo(&domain.User{ID: "u1", Email: "alice@example.com", Name: "Alice", Role: domain.RoleSalesExecutive})
	revoker := newStubRevoker()
	return NewAuthenticator(tokens, users, revoker, zerolog.Nop()), tokens, users, revoker
}

func TestAuthenticator_Success(t *testing.T) {
	authn, tokens, _, _ := newAuthenticatorFixture(t)
	raw, payload, _ := tokens.Issue(alice)

	p, err := authn.Authenticate(context.Background(), "Bearer "+raw)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if p.Identity.ID != "u1" || p.Identity.Role != domain.RoleSalesExecutive {
		t.Fatalf("unexpected identity: %+v", p.Identity)
	}
	if p.TokenID != payload.TokenID {
		t.Fatalf("expected token id %q, got %q", payload.TokenID, p.TokenID)
	}
}

func TestAuthenticator_SchemeIsCaseInsensitive(t *testing.T) {
	authn, tokens, _, _ := newAuthenticatorFixture(t)
	raw, _, _ := tokens.Issue(alice)

	if _, err := authn.Authenticate(context.Background(), "bearer "+raw); err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthenticator_MissingToken(t *testing.T) {
	authn, _, _, _ := newAuthenticatorFixture(t)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", "Token abc"} {
		if _, err := authn.Authenticate(context.Background(), header); !errors.Is(err, domain.ErrNoToken) {
			t.Fatalf("header %q: expected ErrNoToken, got %v", header, err)
		}
	}
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	authn, _, _, _ := newAuthenticatorFixture(t)

	if _, err := authn.Authenticate(context.Background(), "Bearer not-a-jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticator_UnknownSubject(t *testing.T) {
	authn, tokens, _, _ := newAuthenticatorFixture(t)
	raw, _, _ := tokens.Issue(domain.Identity{ID: "deleted", Email: "gone@example.com", Role: domain.RoleAdmin})

	if _, err := authn.Authenticate(context.Background(), "Bearer "+raw); !errors.Is(err, domain.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestAuthenticator_IdentityComesFromStore(t *testing.T) {
	authn, tokens, users, _ := newAuthenticatorFixture(t)
	raw, _, _ := tokens.Issue(alice)

	// Promote alice after the token was issued; the stale role claim is ignored.
	users.users["u1"].Role = domain.RoleSalesManager

	p, err := authn.Authenticate(context.Background(), "Bearer "+raw)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if p.Identity.Role != domain.RoleSalesManager {
		t.Fatalf("expected role from store, got %s", p.Identity.Role)
	}
}

func TestAuthenticator_RevokedToken(t *testing.T) {
	authn, tokens, _, revoker := newAuthenticatorFixture(t)
	raw, payload, _ := tokens.Issue(alice)
	_ = revoker.Revoke(context.Background(), payload.TokenID, time.Now().Add(time.Hour))

	if _, err := authn.Authenticate(context.Background(), "Bearer "+raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticator_StoreFailureIsNotAuthError(t *testing.T) {
	authn, tokens, users, _ := newAuthenticatorFixture(t)
	raw, _, _ := tokens.Issue(alice)
	users.err = errors.New("connection refused")

	_, err := authn.Authenticate(context.Background(), "Bearer "+raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrUnknownSubject) || errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected store error to pass through, got %v", err)
	}
}

func TestAuthenticator_NoRevoker(t *testing.T) {
	tokens := newTokenService(t)
	users := newStubUserRepo(&domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleSalesExecutive})
	authn := NewAuthenticator(tokens, users, nil, zerolog.Nop())
	raw, _, _ := tokens.Issue(alice)

	if _, err := authn.Authenticate(context.Background(), "Bearer "+raw); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
}
