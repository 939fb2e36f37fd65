package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration creates the entitlement table
const Migration = `
	CREATE TABLE IF NOT EXISTS subscriptions (
		email VARCHAR(255) PRIMARY KEY,
		expiry TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	);
`

// EntitlementRepository handles entitlement record persistence
type EntitlementRepository struct {
	pool *pgxpool.Pool
}

// NewEntitlementRepository creates a new EntitlementRepository
func NewEntitlementRepository(pool *pgxpool.Pool) *EntitlementRepository {
	return &EntitlementRepository{pool: pool}
}

// Upsert creates or overwrites the record for the record's email
func (r *EntitlementRepository) Upsert(ctx context.Context, record *model.EntitlementRecord) error {
	query := `
		INSERT INTO subscriptions (email, expiry, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET expiry = EXCLUDED.expiry, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(
		ctx,
		query,
		model.NormalizeEmail(record.Email),
		record.Expiry,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entitlement: %w", err)
	}

	return nil
}

// GetByEmail retrieves the record for an email.
// Returns pgx.ErrNoRows when no record exists.
func (r *EntitlementRepository) GetByEmail(ctx context.Context, email string) (*model.EntitlementRecord, error) {
	query := `
		SELECT email, expiry, updated_at
		FROM subscriptions
		WHERE email = $1
	`

	record := &model.EntitlementRecord{}
	err := r.pool.QueryRow(ctx, query, model.NormalizeEmail(email)).Scan(
		&record.Email,
		&record.Expiry,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return record, nil
}
