package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

var tracer trace.Tracer = otel.Tracer("github.com/leadflow/crm-api/internal/core/service")

// Authenticator turns an Authorization header into a Principal:
// extract bearer token, verify it, check revocation, resolve the user.
// It returns exactly one result per call.
type Authenticator struct {
	tokens  ports.TokenVerifier
	users   ports.UserRepository
	revoker ports.TokenRevoker // optional
	log     zerolog.Logger
}

func NewAuthenticator(tokens ports.TokenVerifier, users ports.UserRepository, revoker ports.TokenRevoker, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revoker: revoker, log: log}
}

// Authenticate fails with domain.ErrNoToken, domain.ErrInvalidToken or
// domain.ErrUnknownSubject; any other error comes from a store and is wrapped.
// Only the subject id is taken from the token, the rest of the identity is
// read fresh from the user store.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (domain.Principal, error) {
	ctx, span := tracer.Start(ctx, "Authenticator.Authenticate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	raw, ok := bearerToken(authorization)
	if !ok {
		return domain.Principal{}, domain.ErrNoToken
	}

	payload, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	if a.revoker != nil {
		revoked, err := a.revoker.IsRevoked(ctx, payload.TokenID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "revocation check failed")
			return domain.Principal{}, fmt.Errorf("authenticate: revocation check: %w", err)
		}
		if revoked {
			return domain.Principal{}, domain.ErrInvalidToken
		}
	}

	user, err := a.users.FindByID(ctx, payload.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.log.Debug().Str("subject", payload.SubjectID).Msg("token subject no longer exists")
			return domain.Principal{}, domain.ErrUnknownSubject
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return domain.Principal{}, fmt.Errorf("authenticate: resolve user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.String("user.role", user.Role.String()),
	)

	return domain.Principal{
		Identity:  user.Identity(),
		TokenID:   payload.TokenID,
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
