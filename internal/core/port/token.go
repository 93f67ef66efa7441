package port

import "time"

// TokenClaims is the minimal claims set carried by issued tokens.
type TokenClaims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed bearer tokens. Decode fails with
// security.ErrInvalidToken on a bad signature, malformed structure, or expiry.
type TokenManager interface {
	Generate(claims TokenClaims) (string, error)
	Decode(token string) (*TokenClaims, error)
}
