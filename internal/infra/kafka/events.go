package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/infra/config"
	"github.com/arklim/contacts-service/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	ContactID string           `json:"contact_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, contactID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if reqID := logger.RequestIDFromContext(ctx); reqID != "" {
		metadata["request_id"] = reqID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		ContactID: contactID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishContactCreated publishes contacts.contact.created events.
func (p *EventPublisher) PublishContactCreated(ctx context.Context, event domain.ContactCreatedEvent) error {
	payload := struct {
		ContactID string    `json:"contact_id"`
		UserName  string    `json:"user_name"`
		Email     string    `json:"email"`
		Type      string    `json:"type"`
		CreatedAt time.Time `json:"created_at"`
	}{
		ContactID: event.ContactID,
		UserName:  event.UserName,
		Email:     event.Email,
		Type:      string(event.Type),
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "contacts.contact.created", event.ContactID, event.CreatedAt, payload)
}

// PublishContactRemoved publishes contacts.contact.removed events.
func (p *EventPublisher) PublishContactRemoved(ctx context.Context, event domain.ContactRemovedEvent) error {
	payload := struct {
		ContactID string    `json:"contact_id"`
		RemovedAt time.Time `json:"removed_at"`
	}{
		ContactID: event.ContactID,
		RemovedAt: event.RemovedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "contacts.contact.removed", event.ContactID, event.RemovedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
