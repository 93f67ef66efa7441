package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/repository"
)

// ContactRepository implements port.ContactRepository with a process-local
// map. Records do not survive a restart; the backing map lives for the
// process lifetime. The mutex makes the uniqueness check and insert one
// atomic step, so concurrent persists for the same userName or email cannot
// both succeed.
type ContactRepository struct {
	mu        sync.Mutex
	nextID    int64
	records   map[string]domain.Contact
	order     []string
	userNames map[string]string
	emails    map[string]string
}

// NewContactRepository constructs an empty in-memory contact repository.
func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		nextID:    1,
		records:   make(map[string]domain.Contact),
		userNames: make(map[string]string),
		emails:    make(map[string]string),
	}
}

// Persist assigns an auto-incrementing id and stores the contact.
func (r *ContactRepository) Persist(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("persist contact: %w", err)
	}
	if contact.ID != "" {
		return nil, fmt.Errorf("persist contact: id must not be set")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.userNames[contact.UserName]; taken {
		return nil, repository.ErrConflict
	}
	if _, taken := r.emails[contact.Email]; taken {
		return nil, repository.ErrConflict
	}

	contact.ID = strconv.FormatInt(r.nextID, 10)
	r.nextID++

	r.records[contact.ID] = contact
	r.order = append(r.order, contact.ID)
	r.userNames[contact.UserName] = contact.ID
	r.emails[contact.Email] = contact.ID

	stored := contact
	return &stored, nil
}

// Get returns the contact for the given id.
func (r *ContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &contact, nil
}

// Find returns all contacts in insertion order.
func (r *ContactRepository) Find(ctx context.Context) ([]domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts := make([]domain.Contact, 0, len(r.order))
	for _, id := range r.order {
		contacts = append(contacts, r.records[id])
	}
	return contacts, nil
}

// GetByUserName returns the contact with the given userName.
func (r *ContactRepository) GetByUserName(ctx context.Context, userName string) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get contact by username: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.userNames[userName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	contact := r.records[id]
	return &contact, nil
}

// GetByEmail returns the contact with the given email. Emails are stored
// lowercased, so the lookup normalizes the same way.
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get contact by email: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.emails[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	contact := r.records[id]
	return &contact, nil
}

// Merge overwrites the stored fields of an existing contact.
func (r *ContactRepository) Merge(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("merge contact: %w", err)
	}
	if contact.ID == "" {
		return nil, fmt.Errorf("merge contact: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[contact.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	// Both conflict checks run before either index moves, so a rejected
	// merge leaves the record and the indexes untouched.
	if contact.UserName != existing.UserName {
		if owner, taken := r.userNames[contact.UserName]; taken && owner != contact.ID {
			return nil, repository.ErrConflict
		}
	}
	if contact.Email != existing.Email {
		if owner, taken := r.emails[contact.Email]; taken && owner != contact.ID {
			return nil, repository.ErrConflict
		}
	}

	if contact.UserName != existing.UserName {
		delete(r.userNames, existing.UserName)
		r.userNames[contact.UserName] = contact.ID
	}
	if contact.Email != existing.Email {
		delete(r.emails, existing.Email)
		r.emails[contact.Email] = contact.ID
	}

	contact.CreatedAt = existing.CreatedAt
	r.records[contact.ID] = contact

	stored := contact
	return &stored, nil
}

// Remove deletes the contact. Removing a nonexistent id is a no-op.
func (r *ContactRepository) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("remove contact: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.records[id]
	if !ok {
		return nil
	}

	delete(r.records, id)
	delete(r.userNames, contact.UserName)
	delete(r.emails, contact.Email)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ port.ContactRepository = (*ContactRepository)(nil)
