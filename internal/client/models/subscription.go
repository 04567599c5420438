package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription mirrors a row of the subscriptions table.
type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Status    SubscriptionStatus `json:"status"`
	Plan      string             `json:"plan_id,omitempty"`
	ExpiresAt time.Time          `json:"expires_at"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// IsActive is the entitlement fact: status active and expiry in the future.
// A nil subscription is never active.
func (s *Subscription) IsActive(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && s.ExpiresAt.After(now)
}
