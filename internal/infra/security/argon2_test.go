package security

import (
	"strings"
	"testing"
)

func newTestAuthenticator(t *testing.T) *Argon2Authenticator {
	t.Helper()

	auth, err := NewArgon2Authenticator(Argon2Config{})
	if err != nil {
		t.Fatalf("NewArgon2Authenticator returned error: %v", err)
	}
	return auth
}

func TestEncryptAndCompareSuccess(t *testing.T) {
	auth := newTestAuthenticator(t)
	password := "correct horse battery staple"

	encoded, err := auth.Encrypt(password)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		t.Fatalf("unexpected hash format: %q", encoded)
	}
	if parts[0] != argon2Variant {
		t.Fatalf("unexpected variant: %s", parts[0])
	}
	if parts[1] != argon2Version {
		t.Fatalf("unexpected version: %s", parts[1])
	}

	ok, err := auth.Compare(password, encoded)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if !ok {
		t.Fatal("Compare returned false for correct password")
	}
}

func TestCompareIncorrectPassword(t *testing.T) {
	auth := newTestAuthenticator(t)

	encoded, err := auth.Encrypt("correct horse battery staple")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	ok, err := auth.Compare("Tr0ub4dor&3", encoded)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if ok {
		t.Fatal("Compare returned true for incorrect password")
	}
}

func TestCompareMalformedHashIsNotAFault(t *testing.T) {
	auth := newTestAuthenticator(t)

	ok, err := auth.Compare("password", "not-an-argon2-hash")
	if err != nil {
		t.Fatalf("Compare returned error for malformed hash: %v", err)
	}
	if ok {
		t.Fatal("Compare returned true for malformed hash")
	}
}

func TestCompareEmptyInputs(t *testing.T) {
	auth := newTestAuthenticator(t)

	ok, err := auth.Compare("", "")
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if ok {
		t.Fatal("Compare returned true for empty inputs")
	}
}

func TestEncryptProducesUniqueSalts(t *testing.T) {
	auth := newTestAuthenticator(t)

	first, err := auth.Encrypt("abc123!")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	second, err := auth.Encrypt("abc123!")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestNewArgon2AuthenticatorRejectsWeakConfig(t *testing.T) {
	_, err := NewArgon2Authenticator(Argon2Config{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	})
	if err == nil {
		t.Fatal("expected error for sub-minimum memory")
	}
}

func TestPlainAuthenticator(t *testing.T) {
	auth := NewPlainAuthenticator()

	encoded, err := auth.Encrypt("abc123!")
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	if encoded != "abc123!" {
		t.Fatalf("expected identity encrypt, got %q", encoded)
	}

	ok, err := auth.Compare("abc123!", encoded)
	if err != nil || !ok {
		t.Fatalf("Compare = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = auth.Compare("wrong", encoded)
	if err != nil || ok {
		t.Fatalf("Compare = (%v, %v), want (false, nil)", ok, err)
	}
}
