// Package billing tracks subscription state. Payment verification with the
// provider happens elsewhere; this package only records the outcome.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/ports"
)

// Status is the subscription view returned to clients
type Status struct {
	Active       bool                  `json:"active"`
	Subscription *account.Subscription `json:"subscription,omitempty"`
}

// Service manages subscriptions
type Service struct {
	subs   ports.SubscriptionRepository
	logger *internal.Logger
	now    func() time.Time
}

// NewService creates a billing service
func NewService(subs ports.SubscriptionRepository, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{subs: subs, logger: logger, now: time.Now}
}

// Status reports whether email currently has access. A user without any
// subscription record is simply inactive.
func (s *Service) Status(ctx context.Context, email core.Email) (Status, error) {
	sub, err := s.subs.Get(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Active: sub.IsActive(s.now()), Subscription: sub}, nil
}

// Activate starts or extends a subscription by period. A still-running
// period is extended from its end rather than from now.
func (s *Service) Activate(ctx context.Context, email core.Email, plan string, period time.Duration) (*account.Subscription, error) {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return nil, core.NewValidationError("plan", "must not be empty")
	}
	if period <= 0 {
		return nil, core.NewValidationError("period", "must be positive")
	}

	now := s.now()
	start := now
	existing, err := s.subs.Get(ctx, email)
	switch {
	case err == nil && existing.IsActive(now):
		start = existing.CurrentPeriodEnd
	case err != nil && !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	sub := &account.Subscription{
		UserEmail:        email,
		Plan:             plan,
		Status:           account.SubscriptionActive,
		CurrentPeriodEnd: start.Add(period),
		UpdatedAt:        now,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("[Billing] activated %s plan for %s until %s", plan, email, sub.CurrentPeriodEnd.Format(time.RFC3339))
	return sub, nil
}

// Cancel stops renewal. Access continues until the current period ends.
func (s *Service) Cancel(ctx context.Context, email core.Email) (*account.Subscription, error) {
	sub, err := s.subs.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if sub.Status != account.SubscriptionActive {
		return nil, fmt.Errorf("%w: subscription is %s", core.ErrInvalidInput, sub.Status)
	}

	sub.Status = account.SubscriptionCanceled
	sub.UpdatedAt = s.now()
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("[Billing] canceled subscription for %s", email)
	return sub, nil
}
