package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/infra/logger"
	"github.com/arklim/contacts-service/internal/repository"
)

// ErrInvalidCredentials indicates the provided email or password is
// incorrect. Unknown accounts and wrong passwords are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps the cost of a failed lookup in line with a real password
// verification, so unknown emails are not observable through timing.
const dummyHash = "argon2id$v=19$m=65536,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$yAjbIxy2VN7WPJZVy1fOFi9dJrBuhlvAdCXLHRV6hIM"

// AuthService coordinates the authentication flow.
type AuthService struct {
	contacts      port.ContactRepository
	authenticator port.Authenticator
	tokens        port.TokenManager
	logger        *zap.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(contacts port.ContactRepository, authenticator port.Authenticator, tokens port.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		contacts:      contacts,
		authenticator: authenticator,
		tokens:        tokens,
		logger:        log,
	}
}

// Authenticate validates credentials and issues a signed token whose subject
// is the contact's email. The plaintext and stored hash never leave this
// method, in return values or in logs.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	// Blank credentials can never match a stored contact; they fail the
	// same way wrong ones do so callers need no extra mapping.
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	email = strings.ToLower(strings.TrimSpace(email))

	contact, err := s.contacts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = s.authenticator.Compare(password, dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup contact: %w", err)
	}

	ok, err := s.authenticator.Compare(password, contact.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Info("authentication rejected", zap.String("email", logger.MaskEmail(email)))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(port.TokenClaims{Subject: contact.Email})
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}
