package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/leadflow/crm-api/internal/core/domain"
)

const (
	DefaultTokenTTL    = 7 * 24 * time.Hour
	DefaultTokenIssuer = "crm-api"
)

type tokenClaims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. It keeps no record of
// issued tokens: a token is valid until it expires unless a revoker says otherwise.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService fails with domain.ErrSigningKeyMissing when secret is empty.
// There is no fallback key.
func NewTokenService(secret, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, domain.ErrSigningKeyMissing
	}
	if issuer == "" {
		issuer = DefaultTokenIssuer
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for identity. The returned payload mirrors the claims.
func (s *TokenService) Issue(identity domain.Identity) (string, domain.TokenPayload, error) {
	now := s.now().UTC().Truncate(time.Second)
	payload := domain.TokenPayload{
		TokenID:   uuid.NewString(),
		SubjectID: identity.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      identity.Role,
		Issuer:    s.issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := tokenClaims{
		Email: payload.Email,
		Name:  payload.Name,
		Role:  payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        payload.TokenID,
			Subject:   payload.SubjectID,
			Issuer:    payload.Issuer,
			IssuedAt:  jwt.NewNumericDate(payload.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(payload.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.TokenPayload{}, err
	}
	return signed, payload, nil
}

// Verify checks algorithm, signature, issuer and expiry. All failures are
// reported as domain.ErrInvalidToken so callers cannot tell them apart.
func (s *TokenService) Verify(raw string) (domain.TokenPayload, error) {
	var claims tokenClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return domain.TokenPayload{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domain.TokenPayload{}, domain.ErrInvalidToken
	}

	payload := domain.TokenPayload{
		TokenID:   claims.ID,
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		Issuer:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	return payload, nil
}
