package models

import "time"

// SessionToken is the JSON document persisted under the auth_token key.
// ExpiresAt is in Unix milliseconds.
type SessionToken struct {
	Token        string `json:"token"`
	ExpiresAt    int64  `json:"expiresAt"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (t SessionToken) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// Expired reports whether now is at or past the expiry instant.
func (t SessionToken) Expired(now time.Time) bool {
	return now.UnixMilli() >= t.ExpiresAt
}
