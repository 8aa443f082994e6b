package activity

import (
	"time"

	"github.com/google/uuid"
)

// Activity types. The set is closed; anything that is not one of the
// specific CRM events falls under TypeOther.
const (
	TypeProspectAdded    = "prospect_added"
	TypeClientAdded      = "client_added"
	TypeStatusUpdated    = "status_updated"
	TypeMeetingScheduled = "meeting_scheduled"
	TypeOther            = "other"
)

// Activity is one append-only audit entry attributed to the user who
// owns the record that triggered it. ContactID/ProspectID link back to
// the triggering record; both stay nil for deletion events because the
// row is already gone.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int64      `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
	ProspectID  *uuid.UUID `json:"prospect_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
