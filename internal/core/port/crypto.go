package port

// Authenticator hashes and verifies credentials. Compare treats a malformed
// stored hash as a failed comparison, not a fault, so authentication failure
// stays a normal outcome for callers.
type Authenticator interface {
	Encrypt(plaintext string) (string, error)
	Compare(plaintext, encoded string) (bool, error)
}
