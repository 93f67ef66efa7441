package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/arklim/contacts-service/internal/core/domain"
)

func validPayload() ContactPayload {
	return ContactPayload{
		UserName: "alicee",
		Name:     "Alice",
		Email:    "alice@x.com",
		Type:     "friend",
		DOB:      "01/01/1990",
		Phone:    "+123456789",
		Password: "abc123!",
	}
}

func TestValidateNormalizesFields(t *testing.T) {
	v := NewContactValidator()

	payload := validPayload()
	payload.Email = "Alice@X.Com"
	payload.Type = "friend"

	result, err := v.Validate(payload)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if result.Email != "alice@x.com" {
		t.Fatalf("expected lowercased email, got %s", result.Email)
	}
	if result.Type != domain.ContactTypeFriend {
		t.Fatalf("expected type FRIEND, got %s", result.Type)
	}
	if got := result.DOB.Format(domain.DOBFormat); got != "01/01/1990" {
		t.Fatalf("expected dob 01/01/1990, got %s", got)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContactPayload)
		field  string
	}{
		{"short userName", func(p *ContactPayload) { p.UserName = "abc" }, "userName"},
		{"password without digit or symbol", func(p *ContactPayload) { p.Password = "abcdefg" }, "password"},
		{"password outside charset", func(p *ContactPayload) { p.Password = "abc123!^" }, "password"},
		{"short password", func(p *ContactPayload) { p.Password = "a1!" }, "password"},
		{"iso dob", func(p *ContactPayload) { p.DOB = "2024-01-01" }, "dob"},
		{"unknown type", func(p *ContactPayload) { p.Type = "STRANGER" }, "type"},
		{"bad email", func(p *ContactPayload) { p.Email = "not-an-email" }, "email"},
		{"missing email", func(p *ContactPayload) { p.Email = "" }, "email"},
		{"non-alphanumeric name", func(p *ContactPayload) { p.Name = "Al ice" }, "name"},
		{"single char name", func(p *ContactPayload) { p.Name = "A" }, "name"},
		{"short phone", func(p *ContactPayload) { p.Phone = "+1234" }, "phone"},
		{"alphabetic phone", func(p *ContactPayload) { p.Phone = "phone-number" }, "phone"},
	}

	v := NewContactValidator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			tc.mutate(&payload)

			_, err := v.Validate(payload)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, f := range verr.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected failure on field %s, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestValidateCollectsAllFailures(t *testing.T) {
	v := NewContactValidator()

	payload := validPayload()
	payload.UserName = "abc"
	payload.Password = "abcdefg"
	payload.DOB = "2024-01-01"

	_, err := v.Validate(payload)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 failing fields, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestDecodeStrictRejectsUnknownKeys(t *testing.T) {
	var payload ContactPayload
	body := `{"userName":"alicee","favouriteColour":"blue"}`

	err := DecodeStrict(strings.NewReader(body), &payload)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown key, got %v", err)
	}
}

func TestDecodeStrictAcceptsKnownKeys(t *testing.T) {
	var payload ContactPayload
	body := `{"userName":"alicee","name":"Alice","email":"alice@x.com","type":"friend","dob":"01/01/1990","phone":"+123456789","password":"abc123!"}`

	if err := DecodeStrict(strings.NewReader(body), &payload); err != nil {
		t.Fatalf("DecodeStrict returned error: %v", err)
	}
	if payload.UserName != "alicee" {
		t.Fatalf("unexpected decode result: %+v", payload)
	}
}
