package usecase

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
)

// ContactService orchestrates the contact use cases. It holds no storage or
// crypto logic of its own; everything is delegated to the injected ports.
type ContactService struct {
	contacts      port.ContactRepository
	authenticator port.Authenticator
	events        port.EventPublisher
	logger        *zap.Logger
}

// NewContactService constructs a contact service.
func NewContactService(contacts port.ContactRepository, authenticator port.Authenticator, events port.EventPublisher, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		contacts:      contacts,
		authenticator: authenticator,
		events:        events,
		logger:        logger,
	}
}

// AddContactParams carries the validated, normalized fields for a new contact.
type AddContactParams struct {
	UserName string
	Name     string
	Email    string
	Type     domain.ContactType
	DOB      time.Time
	Phone    string
	Password string
}

// AddContact hashes the password, builds the contact, and persists it.
// Conflict errors from the repository propagate unchanged.
func (s *ContactService) AddContact(ctx context.Context, params AddContactParams) (*domain.Contact, error) {
	hash, err := s.authenticator.Encrypt(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	contact := domain.Contact{
		UserName:     params.UserName,
		Name:         params.Name,
		Email:        params.Email,
		Type:         params.Type,
		DOB:          params.DOB,
		Phone:        params.Phone,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	stored, err := s.contacts.Persist(ctx, contact)
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, *stored)

	return stored, nil
}

// GetContact returns the contact for the given id.
func (s *ContactService) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	return s.contacts.Get(ctx, id)
}

// Find returns all contacts.
func (s *ContactService) Find(ctx context.Context) ([]domain.Contact, error) {
	return s.contacts.Find(ctx)
}

// FindByUserName returns the contact with the given userName.
func (s *ContactService) FindByUserName(ctx context.Context, userName string) (*domain.Contact, error) {
	return s.contacts.GetByUserName(ctx, userName)
}

// UpdateContact overwrites the stored fields of an existing contact. The
// password hash of the stored record is preserved.
func (s *ContactService) UpdateContact(ctx context.Context, id string, params AddContactParams) (*domain.Contact, error) {
	existing, err := s.contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	contact := domain.Contact{
		ID:           id,
		UserName:     params.UserName,
		Name:         params.Name,
		Email:        params.Email,
		Type:         params.Type,
		DOB:          params.DOB,
		Phone:        params.Phone,
		PasswordHash: existing.PasswordHash,
		CreatedAt:    existing.CreatedAt,
	}

	if params.Password != "" {
		hash, err := s.authenticator.Encrypt(params.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		contact.PasswordHash = hash
	}

	return s.contacts.Merge(ctx, contact)
}

// RemoveContact deletes the contact. Removing a nonexistent id is a no-op.
func (s *ContactService) RemoveContact(ctx context.Context, id string) error {
	if err := s.contacts.Remove(ctx, id); err != nil {
		return err
	}

	s.publishRemoved(ctx, id)

	return nil
}

func (s *ContactService) publishCreated(ctx context.Context, contact domain.Contact) {
	if s.events == nil {
		return
	}

	event := domain.ContactCreatedEvent{
		EventID:   uuid.NewString(),
		ContactID: contact.ID,
		UserName:  contact.UserName,
		Email:     contact.Email,
		Type:      contact.Type,
		CreatedAt: contact.CreatedAt,
	}
	if err := s.events.PublishContactCreated(ctx, event); err != nil {
		// Event delivery failure must not fail the request.
		s.logger.Warn("publish contact created event", zap.Error(err), zap.String("contact_id", contact.ID))
	}
}

func (s *ContactService) publishRemoved(ctx context.Context, id string) {
	if s.events == nil {
		return
	}

	event := domain.ContactRemovedEvent{
		EventID:   uuid.NewString(),
		ContactID: id,
		RemovedAt: time.Now().UTC(),
	}
	if err := s.events.PublishContactRemoved(ctx, event); err != nil {
		s.logger.Warn("publish contact removed event", zap.Error(err), zap.String("contact_id", id))
	}
}
