// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/auth"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// ========== Phone Numbers ==========

// GetOrCreatePhoneNumber registers a phone number if absent. The second
// return value reports whether a new row was inserted.
func (r *AuthRepository) GetOrCreatePhoneNumber(ctx context.Context, value string) (*auth.PhoneNumber, bool, error) {
	query := `
		INSERT INTO phones (phone_number)
		VALUES ($1)
		ON CONFLICT (phone_number) DO NOTHING
		RETURNING phone_number, created_at
	`

	var pn auth.PhoneNumber
	err := r.db.QueryRow(ctx, query, value).Scan(&pn.PhoneNumber, &pn.CreatedAt)
	if err == nil {
		return &pn, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to register phone number: %w", err)
	}

	// Conflict path: the row already existed
	existing, err := r.FindPhoneNumber(ctx, value)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindPhoneNumber retrieves a registered phone number.
func (r *AuthRepository) FindPhoneNumber(ctx context.Context, value string) (*auth.PhoneNumber, error) {
	query := `SELECT phone_number, created_at FROM phones WHERE phone_number = $1`

	var pn auth.PhoneNumber
	err := r.db.QueryRow(ctx, query, value).Scan(&pn.PhoneNumber, &pn.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find phone number: %w", err)
	}

	return &pn, nil
}

// ========== OTPs ==========

// CreateOTP persists a freshly issued code.
func (r *AuthRepository) CreateOTP(ctx context.Context, otp *auth.OTP) error {
	query := `
		INSERT INTO otps (phone_number, code, is_valid, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, otp.PhoneNumber, otp.Code, otp.IsValid, otp.ExpiresAt).
		Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return err
}

// FindValidOTP returns the most recently issued still-usable OTP
// matching (phone, code), or ErrNotFound. Ordering makes selection
// deterministic when several codes are concurrently valid.
func (r *AuthRepository) FindValidOTP(ctx context.Context, phone, code string, now time.Time) (*auth.OTP, error) {
	query := `
		SELECT id, phone_number, code, is_valid, created_at, expires_at
		FROM otps
		WHERE phone_number = $1 AND code = $2 AND is_valid AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp auth.OTP
	err := r.db.QueryRow(ctx, query, phone, code, now).Scan(
		&otp.ID, &otp.PhoneNumber, &otp.Code, &otp.IsValid, &otp.CreatedAt, &otp.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}

	return &otp, nil
}

// ConsumeOTP invalidates an OTP in a single conditional update. The
// WHERE clause re-checks validity and expiry so that two concurrent
// verifications cannot both succeed on the same row.
func (r *AuthRepository) ConsumeOTP(ctx context.Context, id int64, now time.Time) (bool, error) {
	query := `
		UPDATE otps
		SET is_valid = FALSE
		WHERE id = $1 AND is_valid AND expires_at > $2
	`

	result, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// DeleteExpiredOTPs reaps rows whose window has passed. Storage hygiene
// only; verification already checks expiry inline.
func (r *AuthRepository) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM otps WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return result.RowsAffected(), nil
}

// ========== Users ==========

// GetOrCreateUser returns the user bound to a phone number, creating it
// on the first successful verification.
func (r *AuthRepository) GetOrCreateUser(ctx context.Context, phone string) (*auth.User, error) {
	query := `
		INSERT INTO users (phone_number)
		VALUES ($1)
		ON CONFLICT (phone_number) DO NOTHING
		RETURNING id, phone_number, created_at
	`

	var u auth.User
	err := r.db.QueryRow(ctx, query, phone).Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT id, phone_number, created_at FROM users WHERE phone_number = $1`, phone).
		Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// ========== Bearer Credentials ==========

// GetToken returns the credential stored for a user.
func (r *AuthRepository) GetToken(ctx context.Context, userID int64) (*auth.AuthToken, error) {
	query := `SELECT user_id, token, jti, created_at FROM auth_tokens WHERE user_id = $1`

	var t auth.AuthToken
	err := r.db.QueryRow(ctx, query, userID).Scan(&t.UserID, &t.Token, &t.JTI, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &t, nil
}

// CreateToken stores a freshly minted credential. The user_id primary
// key enforces the 1:1 binding.
func (r *AuthRepository) CreateToken(ctx context.Context, t *auth.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, token, jti)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, t.UserID, t.Token, t.JTI).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// ReplaceToken swaps a user's stored credential for a freshly minted
// one. Used when the stored token's signing TTL has elapsed.
func (r *AuthRepository) ReplaceToken(ctx context.Context, t *auth.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, token, jti)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, jti = EXCLUDED.jti, created_at = now()
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, t.UserID, t.Token, t.JTI).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to replace token: %w", err)
	}
	return nil
}

// FindUserByToken resolves a bearer credential to its user.
func (r *AuthRepository) FindUserByToken(ctx context.Context, tokenString string) (*auth.User, error) {
	query := `
		SELECT u.id, u.phone_number, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`

	var u auth.User
	err := r.db.QueryRow(ctx, query, tokenString).Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by token: %w", err)
	}

	return &u, nil
}
