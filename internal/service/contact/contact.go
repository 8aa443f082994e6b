// internal/service/contact/contact.go
package contact

import (
	"context"

	"crm-service/internal/domain/contact"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the owner-scoped persistence surface for contacts. Lookups
// for rows owned by someone else return ErrNotFound, never a
// permission error.
type Store interface {
	Create(ctx context.Context, c *contact.Contact) error
	FindByID(ctx context.Context, ownerID int64, id uuid.UUID) (*contact.Contact, error)
	List(ctx context.Context, ownerID int64) ([]*contact.Contact, error)
	Update(ctx context.Context, c *contact.Contact) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
}

// Recorder receives lifecycle events after the store commit. Calls must
// not fail the mutation.
type Recorder interface {
	RecordContactCreated(ctx context.Context, c *contact.Contact)
	RecordContactUpdated(ctx context.Context, c *contact.Contact)
	RecordContactDeleted(ctx context.Context, c *contact.Contact)
}

type ContactService struct {
	store    Store
	recorder Recorder
	logger   *zap.Logger
}

func NewContactService(store Store, recorder Recorder, logger *zap.Logger) *ContactService {
	return &ContactService{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Create inserts a contact owned by the caller. The owner comes from
// the authenticated session; nothing client-supplied can set it.
func (s *ContactService) Create(ctx context.Context, ownerID int64, req *contact.CreateContactRequest) (*contact.Contact, error) {
	c := &contact.Contact{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Company:     req.Company,
		Type:        req.Type,
		ProspectID:  req.ProspectID,
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("failed to create contact", zap.Error(err))
		return nil, err
	}

	s.logger.Info("contact created",
		zap.String("contact_id", c.ID.String()),
		zap.Int64("owner_id", ownerID),
	)

	s.recorder.RecordContactCreated(ctx, c)
	return c, nil
}

// Get retrieves one of the caller's contacts.
func (s *ContactService) Get(ctx context.Context, ownerID int64, id uuid.UUID) (*contact.Contact, error) {
	return s.store.FindByID(ctx, ownerID, id)
}

// List returns all of the caller's contacts.
func (s *ContactService) List(ctx context.Context, ownerID int64) ([]*contact.Contact, error) {
	return s.store.List(ctx, ownerID)
}

// Update applies the provided fields to one of the caller's contacts.
func (s *ContactService) Update(ctx context.Context, ownerID int64, id uuid.UUID, req *contact.UpdateContactRequest) (*contact.Contact, error) {
	c, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Company.Set {
		c.Company = req.Company.Val
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.ProspectID.Set {
		c.ProspectID = req.ProspectID.Val
	}

	if err := s.store.Update(ctx, c); err != nil {
		s.logger.Error("failed to update contact", zap.Error(err))
		return nil, err
	}

	s.recorder.RecordContactUpdated(ctx, c)
	return c, nil
}

// Delete removes one of the caller's contacts. The pre-delete snapshot
// feeds the audit entry since the row is gone afterwards.
func (s *ContactService) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	c, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("contact deleted",
		zap.String("contact_id", id.String()),
		zap.Int64("owner_id", ownerID),
	)

	s.recorder.RecordContactDeleted(ctx, c)
	return nil
}
