// internal/repository/postgres/activity_repo.go
package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository is append-only; there is no update or delete path.
type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an audit entry.
func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO activities (id, user_id, title, description, type, contact_id, prospect_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		a.ID, a.UserID, a.Title, a.Description, a.Type, a.ContactID, a.ProspectID,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// ListByUser returns a user's activities, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64) ([]*activity.Activity, error) {
	query := `
		SELECT id, user_id, title, description, type, contact_id, prospect_id, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*activity.Activity
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &a.Description, &a.Type,
			&a.ContactID, &a.ProspectID, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}
