package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, contactID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("contact_id", contactID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishContactCreated logs contacts.contact.created events.
func (p *StubPublisher) PublishContactCreated(_ context.Context, event domain.ContactCreatedEvent) error {
	payload := map[string]any{
		"contact_id": event.ContactID,
		"user_name":  event.UserName,
		"email":      event.Email,
		"type":       event.Type,
		"created_at": event.CreatedAt,
	}
	p.logEvent("contacts.contact.created", event.ContactID, event.CreatedAt, payload)
	return nil
}

// PublishContactRemoved logs contacts.contact.removed events.
func (p *StubPublisher) PublishContactRemoved(_ context.Context, event domain.ContactRemovedEvent) error {
	payload := map[string]any{
		"contact_id": event.ContactID,
		"removed_at": event.RemovedAt,
	}
	p.logEvent("contacts.contact.removed", event.ContactID, event.RemovedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
