// internal/service/activity/activity.go
package activity

import (
	"context"
	"fmt"
	"strings"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/prospect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the append-only persistence surface for audit entries.
type Store interface {
	Create(ctx context.Context, a *activity.Activity) error
	ListByUser(ctx context.Context, userID int64) ([]*activity.Activity, error)
}

// Publisher pushes a recorded activity to the owner's live feed.
type Publisher interface {
	Publish(userID int64, a *activity.Activity)
}

// Service derives audit entries from contact and prospect mutations.
// Recording is best-effort: a failed write is logged and swallowed so
// the triggering mutation is never rolled back or failed on its
// account.
type Service struct {
	store  Store
	feed   Publisher
	logger *zap.Logger
}

// NewService wires the recorder. feed may be nil when no live feed is
// attached.
func NewService(store Store, feed Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, feed: feed, logger: logger}
}

// ListByUser returns the caller's audit trail, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*activity.Activity, error) {
	return s.store.ListByUser(ctx, userID)
}

// ========== Contact events ==========

func (s *Service) RecordContactCreated(ctx context.Context, c *contact.Contact) {
	activityType := activity.TypeProspectAdded
	title := "Prospect ajouté"
	if strings.EqualFold(c.Type, contact.TypeClient) {
		activityType = activity.TypeClientAdded
		title = "Client ajouté"
	}

	id := c.ID
	s.record(ctx, &activity.Activity{
		UserID:      c.OwnerID,
		Title:       title,
		Description: fmt.Sprintf("New %s contact created: %s", c.Type, c.Name),
		Type:        activityType,
		ContactID:   &id,
	})
}

func (s *Service) RecordContactUpdated(ctx context.Context, c *contact.Contact) {
	id := c.ID
	s.record(ctx, &activity.Activity{
		UserID:      c.OwnerID,
		Title:       "Contact mis à jour",
		Description: fmt.Sprintf("Contact updated: %s", c.Name),
		Type:        activity.TypeStatusUpdated,
		ContactID:   &id,
	})
}

// RecordContactDeleted leaves the contact reference empty; the row it
// would point at is gone.
func (s *Service) RecordContactDeleted(ctx context.Context, c *contact.Contact) {
	s.record(ctx, &activity.Activity{
		UserID:      c.OwnerID,
		Title:       "Contact supprimé",
		Description: fmt.Sprintf("Contact deleted: %s", c.Name),
		Type:        activity.TypeOther,
	})
}

// ========== Prospect events ==========

func (s *Service) RecordProspectCreated(ctx context.Context, p *prospect.Prospect) {
	id := p.ID
	s.record(ctx, &activity.Activity{
		UserID:      p.OwnerID,
		Title:       "Prospect ajouté",
		Description: fmt.Sprintf("New prospect created: %s", p.Entreprise),
		Type:        activity.TypeProspectAdded,
		ProspectID:  &id,
	})
}

func (s *Service) RecordProspectUpdated(ctx context.Context, p *prospect.Prospect) {
	id := p.ID
	s.record(ctx, &activity.Activity{
		UserID:      p.OwnerID,
		Title:       "Prospect mis à jour",
		Description: fmt.Sprintf("Prospect updated: %s", p.Entreprise),
		Type:        activity.TypeStatusUpdated,
		ProspectID:  &id,
	})
}

func (s *Service) RecordProspectDeleted(ctx context.Context, p *prospect.Prospect) {
	s.record(ctx, &activity.Activity{
		UserID:      p.OwnerID,
		Title:       "Prospect supprimé",
		Description: fmt.Sprintf("Prospect deleted: %s", p.Entreprise),
		Type:        activity.TypeOther,
	})
}

func (s *Service) record(ctx context.Context, a *activity.Activity) {
	a.ID = uuid.New()

	if err := s.store.Create(ctx, a); err != nil {
		s.logger.Error("failed to record activity",
			zap.String("type", a.Type),
			zap.Int64("user_id", a.UserID),
			zap.Error(err),
		)
		return
	}

	if s.feed != nil {
		s.feed.Publish(a.UserID, a)
	}
}
