package security

import (
	"crypto/subtle"

	"github.com/arklim/contacts-service/internal/core/port"
)

// PlainAuthenticator stores credentials verbatim and compares by equality.
// It exists for tests and local demos only; the composition root never
// selects it for a networked deployment unless explicitly configured.
type PlainAuthenticator struct{}

// NewPlainAuthenticator constructs the plain-equality authenticator.
func NewPlainAuthenticator() *PlainAuthenticator {
	return &PlainAuthenticator{}
}

// Encrypt is the identity function.
func (*PlainAuthenticator) Encrypt(password string) (string, error) {
	return password, nil
}

// Compare checks equality in constant time.
func (*PlainAuthenticator) Compare(password, encoded string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(password), []byte(encoded)) == 1, nil
}

var _ port.Authenticator = (*PlainAuthenticator)(nil)
