package ports

import (
	"context"
	"time"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role // empty = domain.DefaultRole
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, principal domain.Principal) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints bearer tokens for an identity.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, domain.TokenPayload, error)
}

// TokenVerifier checks a bearer token. Every failure is domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(raw string) (domain.TokenPayload, error)
}

// TokenRevoker is the optional server-side deny-list for tokens that must stop
// working before they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
