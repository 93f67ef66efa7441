package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/infra/logger"
)

// ErrorResponse represents a generic error payload with a request ID for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request correlation ID.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: logger.RequestIDFromContext(c.Request.Context()),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ContactSummary is the external view of a contact. The password hash is
// never part of it.
type ContactSummary struct {
	ID       string             `json:"id"`
	UserName string             `json:"userName"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Type     domain.ContactType `json:"type"`
	DOB      string             `json:"dob"`
	Phone    string             `json:"phone"`
	Created  time.Time          `json:"createdAt"`
}

func newContactSummary(contact domain.Contact) ContactSummary {
	return ContactSummary{
		ID:       contact.ID,
		UserName: contact.UserName,
		Name:     contact.Name,
		Email:    contact.Email,
		Type:     contact.Type,
		DOB:      contact.DOB.Format(domain.DOBFormat),
		Phone:    contact.Phone,
		Created:  contact.CreatedAt,
	}
}

// AuthenticateRequest defines the payload for the authenticate endpoint.
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateResponse carries the signed token for valid credentials.
type AuthenticateResponse struct {
	Token string `json:"token"`
}

// HealthResponse reports the liveness status of the service.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the readiness of the service dependencies.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
