package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/ports"
)

// SubscriptionRepositoryImpl implements SubscriptionRepository for PostgreSQL
type SubscriptionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sqlx.DB) ports.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// Get returns the subscription for a user
func (r *SubscriptionRepositoryImpl) Get(ctx context.Context, email core.Email) (*account.Subscription, error) {
	var sub account.Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT user_email, plan, status, current_period_end, updated_at
		FROM subscriptions
		WHERE user_email = $1
	`, email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: subscription for %s", core.ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert stores the subscription, replacing any previous record for the user
func (r *SubscriptionRepositoryImpl) Upsert(ctx context.Context, sub *account.Subscription) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO subscriptions (user_email, plan, status, current_period_end, updated_at)
		VALUES (:user_email, :plan, :status, :current_period_end, NOW())
		ON CONFLICT (user_email) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}
