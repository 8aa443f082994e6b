package contact

import (
	"github.com/google/uuid"
)

// TypeClient marks a contact as a client; any other Type value is a
// generic contact and is audited as a prospect addition.
const TypeClient = "client"

// Contact is a person attached to exactly one owning user. It may
// optionally point at the prospect company it belongs to; that link is
// cleared when the prospect is deleted.
type Contact struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     int64      `json:"-"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	Email       string     `json:"email"`
	Company     *string    `json:"company,omitempty"`
	Type        string     `json:"type"`
	ProspectID  *uuid.UUID `json:"prospect_id,omitempty"`
}
