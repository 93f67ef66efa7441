package domain

import "time"

// ContactCreatedEvent represents the payload for contacts.contact.created messages.
type ContactCreatedEvent struct {
	EventID   string
	ContactID string
	UserName  string
	Email     string
	Type      ContactType
	CreatedAt time.Time
}

// ContactRemovedEvent represents the payload for contacts.contact.removed messages.
type ContactRemovedEvent struct {
	EventID   string
	ContactID string
	RemovedAt time.Time
}
