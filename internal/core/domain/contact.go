package domain

import "time"

// ContactType enumerates the relationship categories a contact may have.
type ContactType string

const (
	ContactTypeFriend ContactType = "FRIEND"
	ContactTypeFamily ContactType = "FAMILY"
	ContactTypeOther  ContactType = "OTHER"
)

// Valid reports whether the value is one of the known contact types.
func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeFriend, ContactTypeFamily, ContactTypeOther:
		return true
	}
	return false
}

// DOBFormat is the external wire representation for dates of birth.
const DOBFormat = "02/01/2006"

// Contact mirrors the persisted representation of a contact record.
// Email is stored lowercased and Type uppercased; PasswordHash only ever
// holds the encoded hash, never the plaintext secret.
type Contact struct {
	ID           string
	UserName     string
	Name         string
	Email        string
	Type         ContactType
	DOB          time.Time
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

// Sanitized returns a copy of the contact with the password hash cleared.
func (c Contact) Sanitized() Contact {
	c.PasswordHash = ""
	return c
}
