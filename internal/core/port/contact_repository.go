package port

import (
	"context"

	"github.com/arklim/contacts-service/internal/core/domain"
)

// ContactRepository exposes persistence behavior for contacts. Implementations
// enforce userName/email uniqueness themselves and surface the sentinel errors
// from the repository package, so the service layer stays backend-agnostic.
type ContactRepository interface {
	// Persist stores a contact without an ID, assigns a fresh one, and
	// returns the stored record. Fails with repository.ErrConflict when the
	// userName or email is already taken.
	Persist(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	// Get returns the contact for the given id or repository.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Contact, error)
	// Find returns all contacts in an order that is stable for the lifetime
	// of the process.
	Find(ctx context.Context) ([]domain.Contact, error)
	// GetByUserName returns the matching contact or repository.ErrNotFound.
	GetByUserName(ctx context.Context, userName string) (*domain.Contact, error)
	// GetByEmail returns the matching contact or repository.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.Contact, error)
	// Merge overwrites the stored fields of an existing contact. Fails with
	// repository.ErrNotFound when the id is unknown.
	Merge(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	// Remove deletes the contact. Removing a nonexistent id is not an error.
	Remove(ctx context.Context, id string) error
}
