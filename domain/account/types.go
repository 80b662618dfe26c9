package account

import (
	"time"

	"phone8ez/domain/core"
)

// Role is the authorization level of a principal
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps stored role strings onto known roles, defaulting to RoleUser
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Principal is the authenticated caller of a request
type Principal struct {
	Email core.Email `json:"email"`
	Role  Role       `json:"role"`
}

// IsAdmin reports whether the principal may manage notices, reports and subscriptions
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// User represents a registered account
type User struct {
	Email     core.Email `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	Role      Role       `json:"role" db:"role"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Principal returns the identity view of the user
func (u User) Principal() Principal {
	return Principal{Email: u.Email, Role: u.Role}
}

// SubscriptionStatus represents the billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Subscription is the billing record for one user
type Subscription struct {
	UserEmail        core.Email         `json:"user_email" db:"user_email"`
	Plan             string             `json:"plan" db:"plan"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	CurrentPeriodEnd time.Time          `json:"current_period_end" db:"current_period_end"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the subscription grants access at the given instant.
// A canceled subscription stays usable until the paid period runs out.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case SubscriptionActive, SubscriptionCanceled:
		return now.Before(s.CurrentPeriodEnd)
	default:
		return false
	}
}
