package ports

import (
	"context"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
)

// SubscriptionRepository persists one billing record per user
type SubscriptionRepository interface {
	// Get returns the user's subscription or core.ErrNotFound
	Get(ctx context.Context, email core.Email) (*account.Subscription, error)

	// Upsert inserts or replaces the user's subscription
	Upsert(ctx context.Context, sub *account.Subscription) error
}
