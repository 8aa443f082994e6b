package contact

import (
	"crm-service/internal/pkg/optional"

	"github.com/google/uuid"
)

type CreateContactRequest struct {
	Name        string     `json:"name" binding:"required"`
	PhoneNumber string     `json:"phone_number" binding:"required"`
	Email       string     `json:"email" binding:"required"`
	Company     *string    `json:"company"`
	Type        string     `json:"type" binding:"required"`
	ProspectID  *uuid.UUID `json:"prospect_id"`
}

// UpdateContactRequest leaves absent fields untouched. The nullable
// columns use optional.Value so an explicit null clears them.
type UpdateContactRequest struct {
	Name        *string                   `json:"name"`
	PhoneNumber *string                   `json:"phone_number"`
	Email       *string                   `json:"email"`
	Company     optional.Value[string]    `json:"company"`
	Type        *string                   `json:"type"`
	ProspectID  optional.Value[uuid.UUID] `json:"prospect_id"`
}
