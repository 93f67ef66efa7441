package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/arklim/contacts-service/internal/core/domain"
)

// ContactPayload is the raw contact submission before validation. The JSON
// field names are the external contract.
type ContactPayload struct {
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// NewContact is a validated, normalized payload ready for the service layer.
type NewContact struct {
	UserName string
	Name     string
	Email    string
	Type     domain.ContactType
	DOB      time.Time
	Phone    string
	Password string
}

// FieldError describes a single failing field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every failing field of a payload.
type ValidationError struct {
	Fields []FieldError
}

// Error joins the per-field messages into one human-readable string.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z0-9]{2,30}$`)
	phoneRe = regexp.MustCompile(`^\s*\+?\s*([0-9][\s-]*){9,}$`)

	// The password charset is closed: letters, digits, and the fixed symbol
	// set. One of each of letter/digit/symbol is required.
	passwordCharsetRe = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{7,}$`)
	passwordLetterRe  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitRe   = regexp.MustCompile(`\d`)
	passwordSymbolRe  = regexp.MustCompile(`[@$!%*#?&]`)
)

// ContactValidator schema-checks contact payloads. The schema is closed:
// DecodeStrict rejects unknown keys before the rules run.
type ContactValidator struct{}

// NewContactValidator constructs a contact validator.
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// DecodeStrict decodes a JSON payload, rejecting unknown fields.
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	// A trailing second JSON value is as malformed as an unknown key.
	if dec.More() {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: "unexpected trailing data"}}}
	}
	return nil
}

// Validate applies the contact schema and returns the normalized result, or a
// *ValidationError listing every failing field.
func (v *ContactValidator) Validate(payload ContactPayload) (*NewContact, error) {
	var fields []FieldError
	fail := func(field, message string) {
		fields = append(fields, FieldError{Field: field, Message: message})
	}

	result := NewContact{
		UserName: strings.TrimSpace(payload.UserName),
		Name:     strings.TrimSpace(payload.Name),
		Phone:    strings.TrimSpace(payload.Phone),
		Password: payload.Password,
	}

	if len(result.UserName) < 5 {
		fail("userName", "must be at least 5 characters")
	}

	if !nameRe.MatchString(result.Name) {
		fail("name", "must be alphanumeric, 2-30 characters")
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		fail("email", "is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fail("email", "must be a valid email address")
	}
	result.Email = email

	contactType := domain.ContactType(strings.ToUpper(strings.TrimSpace(payload.Type)))
	if !contactType.Valid() {
		fail("type", "must be one of FRIEND, FAMILY, OTHER")
	}
	result.Type = contactType

	dob, err := time.Parse(domain.DOBFormat, strings.TrimSpace(payload.DOB))
	if err != nil {
		fail("dob", "must be a date in DD/MM/YYYY format")
	}
	result.DOB = dob

	if !phoneRe.MatchString(result.Phone) {
		fail("phone", "must be an international phone number with at least 9 digits")
	}

	switch {
	case len(payload.Password) < 7:
		fail("password", "must be at least 7 characters")
	case !passwordCharsetRe.MatchString(payload.Password):
		fail("password", "may only contain letters, digits, and @$!%*#?&")
	case !passwordLetterRe.MatchString(payload.Password),
		!passwordDigitRe.MatchString(payload.Password),
		!passwordSymbolRe.MatchString(payload.Password):
		fail("password", "must contain at least one letter, one digit, and one symbol")
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &result, nil
}
