// internal/repository/postgres/prospect_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/prospect"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProspectRepository scopes every statement by owner_id, like
// ContactRepository. Deleting a prospect relies on the contacts table's
// ON DELETE SET NULL to clear dangling links.
type ProspectRepository struct {
	db *pgxpool.Pool
}

func NewProspectRepository(db *pgxpool.Pool) *ProspectRepository {
	return &ProspectRepository{db: db}
}

const prospectColumns = `id, owner_id, entreprise, adresse, wilaya, commune, phone_number,
		email, categorie, forme_legale, secteur, sous_secteur, nif, registre_commerce, status`

func scanProspect(row pgx.Row) (*prospect.Prospect, error) {
	var p prospect.Prospect
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Entreprise, &p.Adresse, &p.Wilaya, &p.Commune, &p.PhoneNumber,
		&p.Email, &p.Categorie, &p.FormeLegale, &p.Secteur, &p.SousSecteur, &p.NIF,
		&p.RegistreCommerce, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a prospect.
func (r *ProspectRepository) Create(ctx context.Context, p *prospect.Prospect) error {
	query := `
		INSERT INTO prospects (` + prospectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Entreprise, p.Adresse, p.Wilaya, p.Commune, p.PhoneNumber,
		p.Email, p.Categorie, p.FormeLegale, p.Secteur, p.SousSecteur, p.NIF,
		p.RegistreCommerce, p.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create prospect: %w", err)
	}
	return nil
}

// FindByID retrieves a prospect owned by the given user.
func (r *ProspectRepository) FindByID(ctx context.Context, ownerID int64, id uuid.UUID) (*prospect.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = $1 AND owner_id = $2`

	p, err := scanProspect(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find prospect: %w", err)
	}

	return p, nil
}

// List returns all prospects owned by the given user.
func (r *ProspectRepository) List(ctx context.Context, ownerID int64) ([]*prospect.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE owner_id = $1 ORDER BY entreprise`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []*prospect.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, p)
	}

	return prospects, rows.Err()
}

// Update rewrites a prospect's mutable fields.
func (r *ProspectRepository) Update(ctx context.Context, p *prospect.Prospect) error {
	query := `
		UPDATE prospects
		SET entreprise = $1, adresse = $2, wilaya = $3, commune = $4, phone_number = $5,
		    email = $6, categorie = $7, forme_legale = $8, secteur = $9, sous_secteur = $10,
		    nif = $11, registre_commerce = $12, status = $13
		WHERE id = $14 AND owner_id = $15
	`

	result, err := r.db.Exec(ctx, query,
		p.Entreprise, p.Adresse, p.Wilaya, p.Commune, p.PhoneNumber,
		p.Email, p.Categorie, p.FormeLegale, p.Secteur, p.SousSecteur,
		p.NIF, p.RegistreCommerce, p.Status, p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prospect: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a prospect row.
func (r *ProspectRepository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM prospects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete prospect: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
