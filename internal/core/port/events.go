package port

import (
	"context"

	"github.com/arklim/contacts-service/internal/core/domain"
)

// EventPublisher publishes contact lifecycle events to the message bus.
type EventPublisher interface {
	PublishContactCreated(ctx context.Context, event domain.ContactCreatedEvent) error
	PublishContactRemoved(ctx context.Context, event domain.ContactRemovedEvent) error
}
