// internal/service/prospect/prospect.go
package prospect

import (
	"context"

	"crm-service/internal/domain/prospect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the owner-scoped persistence surface for prospects.
type Store interface {
	Create(ctx context.Context, p *prospect.Prospect) error
	FindByID(ctx context.Context, ownerID int64, id uuid.UUID) (*prospect.Prospect, error)
	List(ctx context.Context, ownerID int64) ([]*prospect.Prospect, error)
	Update(ctx context.Context, p *prospect.Prospect) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
}

// Recorder receives lifecycle events after the store commit.
type Recorder interface {
	RecordProspectCreated(ctx context.Context, p *prospect.Prospect)
	RecordProspectUpdated(ctx context.Context, p *prospect.Prospect)
	RecordProspectDeleted(ctx context.Context, p *prospect.Prospect)
}

type ProspectService struct {
	store    Store
	recorder Recorder
	logger   *zap.Logger
}

func NewProspectService(store Store, recorder Recorder, logger *zap.Logger) *ProspectService {
	return &ProspectService{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Create inserts a prospect owned by the caller.
func (s *ProspectService) Create(ctx context.Context, ownerID int64, req *prospect.CreateProspectRequest) (*prospect.Prospect, error) {
	p := &prospect.Prospect{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Entreprise:       req.Entreprise,
		Adresse:          req.Adresse,
		Wilaya:           req.Wilaya,
		Commune:          req.Commune,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		Categorie:        req.Categorie,
		FormeLegale:      req.FormeLegale,
		Secteur:          req.Secteur,
		SousSecteur:      req.SousSecteur,
		NIF:              req.NIF,
		RegistreCommerce: req.RegistreCommerce,
		Status:           req.Status,
	}

	if err := s.store.Create(ctx, p); err != nil {
		s.logger.Error("failed to create prospect", zap.Error(err))
		return nil, err
	}

	s.logger.Info("prospect created",
		zap.String("prospect_id", p.ID.String()),
		zap.Int64("owner_id", ownerID),
	)

	s.recorder.RecordProspectCreated(ctx, p)
	return p, nil
}

// Get retrieves one of the caller's prospects.
func (s *ProspectService) Get(ctx context.Context, ownerID int64, id uuid.UUID) (*prospect.Prospect, error) {
	return s.store.FindByID(ctx, ownerID, id)
}

// List returns all of the caller's prospects.
func (s *ProspectService) List(ctx context.Context, ownerID int64) ([]*prospect.Prospect, error) {
	return s.store.List(ctx, ownerID)
}

// Update applies the provided fields to one of the caller's prospects.
func (s *ProspectService) Update(ctx context.Context, ownerID int64, id uuid.UUID, req *prospect.UpdateProspectRequest) (*prospect.Prospect, error) {
	p, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Entreprise != nil {
		p.Entreprise = *req.Entreprise
	}
	if req.Adresse.Set {
		p.Adresse = req.Adresse.Val
	}
	if req.Wilaya.Set {
		p.Wilaya = req.Wilaya.Val
	}
	if req.Commune.Set {
		p.Commune = req.Commune.Val
	}
	if req.PhoneNumber.Set {
		p.PhoneNumber = req.PhoneNumber.Val
	}
	if req.Email.Set {
		p.Email = req.Email.Val
	}
	if req.Categorie.Set {
		p.Categorie = req.Categorie.Val
	}
	if req.FormeLegale.Set {
		p.FormeLegale = req.FormeLegale.Val
	}
	if req.Secteur.Set {
		p.Secteur = req.Secteur.Val
	}
	if req.SousSecteur.Set {
		p.SousSecteur = req.SousSecteur.Val
	}
	if req.NIF.Set {
		p.NIF = req.NIF.Val
	}
	if req.RegistreCommerce.Set {
		p.RegistreCommerce = req.RegistreCommerce.Val
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := s.store.Update(ctx, p); err != nil {
		s.logger.Error("failed to update prospect", zap.Error(err))
		return nil, err
	}

	s.recorder.RecordProspectUpdated(ctx, p)
	return p, nil
}

// Delete removes one of the caller's prospects. Contacts linked to it
// keep their rows; the store clears the dangling prospect reference.
func (s *ProspectService) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	p, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("prospect deleted",
		zap.String("prospect_id", id.String()),
		zap.Int64("owner_id", ownerID),
	)

	s.recorder.RecordProspectDeleted(ctx, p)
	return nil
}
