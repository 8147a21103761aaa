package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AMR-Works/toolshub/pkg/entitlement"
)

// PostgresSubscriptionStore implements SubscriptionStore on PostgreSQL.
// The unique index on (user_id, checkout_id) makes concurrent verification
// calls for the same checkout converge on one row.
type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionStore creates a Postgres-backed subscription store.
func NewPostgresSubscriptionStore(pool *pgxpool.Pool) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{pool: pool}
}

func (s *PostgresSubscriptionStore) Upsert(ctx context.Context, record *SubscriptionRecord) error {
	const query = `
		INSERT INTO subscriptions (id, user_id, gateway, checkout_id, subscription_id, status, amount, currency, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (user_id, checkout_id) DO UPDATE SET
			subscription_id = EXCLUDED.subscription_id,
			status          = EXCLUDED.status,
			amount          = EXCLUDED.amount,
			currency        = EXCLUDED.currency,
			expires_at      = EXCLUDED.expires_at,
			updated_at      = now()
		RETURNING id, created_at, updated_at`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	row := s.pool.QueryRow(ctx, query,
		record.ID, record.UserID, record.Gateway, record.CheckoutID,
		record.SubscriptionID, record.Status, record.Amount, record.Currency,
		record.ExpiresAt,
	)
	if err := row.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	return nil
}

func (s *PostgresSubscriptionStore) GetByCheckoutID(ctx context.Context, userID uuid.UUID, checkoutID string) (*SubscriptionRecord, error) {
	const query = `
		SELECT id, user_id, gateway, checkout_id, subscription_id, status, amount, currency, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1 AND checkout_id = $2`

	var record SubscriptionRecord
	err := s.pool.QueryRow(ctx, query, userID, checkoutID).Scan(
		&record.ID, &record.UserID, &record.Gateway, &record.CheckoutID,
		&record.SubscriptionID, &record.Status, &record.Amount, &record.Currency,
		&record.ExpiresAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrPersistenceFailure, err)
	}
	return &record, nil
}

// PostgresAccessStore implements AccessStore on PostgreSQL.
type PostgresAccessStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccessStore creates a Postgres-backed access store.
func NewPostgresAccessStore(pool *pgxpool.Pool) *PostgresAccessStore {
	return &PostgresAccessStore{pool: pool}
}

func (s *PostgresAccessStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.AccessRecord, error) {
	const query = `SELECT user_id, is_premium, premium_expires_at FROM access_records WHERE user_id = $1`

	var record entitlement.AccessRecord
	err := s.pool.QueryRow(ctx, query, userID).Scan(&record.UserID, &record.IsPremium, &record.PremiumExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccessRecordNotFound
		}
		return nil, errors.Join(ErrPersistenceFailure, err)
	}
	return &record, nil
}

func (s *PostgresAccessStore) Set(ctx context.Context, record entitlement.AccessRecord) error {
	const query = `
		INSERT INTO access_records (user_id, is_premium, premium_expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			is_premium         = EXCLUDED.is_premium,
			premium_expires_at = EXCLUDED.premium_expires_at,
			updated_at         = now()`

	if _, err := s.pool.Exec(ctx, query, record.UserID, record.IsPremium, record.PremiumExpiresAt); err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	return nil
}
