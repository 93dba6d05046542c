package domain

import "time"

// TokenPayload is the verified content of a bearer token.
type TokenPayload struct {
	TokenID   string
	SubjectID string
	Email     string
	Name      string
	Role      Role
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is what authentication attaches to a request: the freshly
// resolved identity plus the token it was proven with.
type Principal struct {
	Identity  Identity
	TokenID   string
	ExpiresAt time.Time
}
