// internal/repository/postgres/contact_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/contact"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository scopes every statement by owner_id. A row owned by
// another user is indistinguishable from a missing row.
type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a contact.
func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (id, owner_id, name, phone_number, email, company, type, prospect_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.OwnerID, c.Name, c.PhoneNumber, c.Email, c.Company, c.Type, c.ProspectID,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact owned by the given user.
func (r *ContactRepository) FindByID(ctx context.Context, ownerID int64, id uuid.UUID) (*contact.Contact, error) {
	query := `
		SELECT id, owner_id, name, phone_number, email, company, type, prospect_id
		FROM contacts
		WHERE id = $1 AND owner_id = $2
	`

	var c contact.Contact
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.PhoneNumber, &c.Email, &c.Company, &c.Type, &c.ProspectID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return &c, nil
}

// List returns all contacts owned by the given user.
func (r *ContactRepository) List(ctx context.Context, ownerID int64) ([]*contact.Contact, error) {
	query := `
		SELECT id, owner_id, name, phone_number, email, company, type, prospect_id
		FROM contacts
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact
	for rows.Next() {
		var c contact.Contact
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Name, &c.PhoneNumber, &c.Email, &c.Company, &c.Type, &c.ProspectID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}

	return contacts, rows.Err()
}

// Update rewrites a contact's mutable fields.
func (r *ContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, phone_number = $2, email = $3, company = $4, type = $5, prospect_id = $6
		WHERE id = $7 AND owner_id = $8
	`

	result, err := r.db.Exec(ctx, query,
		c.Name, c.PhoneNumber, c.Email, c.Company, c.Type, c.ProspectID, c.ID, c.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a contact row.
func (r *ContactRepository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
