package models

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultDisplayName is used when neither metadata nor email yields a name.
const DefaultDisplayName = "Benutzer"

// User is the signed-in identity together with its entitlement flag.
type User struct {
	ID                    string
	Name                  string
	Email                 string
	Role                  Role
	HasActiveSubscription bool
}

// NewUser builds a User from backend identity fields. The display name falls
// back to metadata "name", then the local part of email, then
// DefaultDisplayName; the role falls back to RoleUser.
func NewUser(id, email string, metadata map[string]any) *User {
	return &User{
		ID:    id,
		Name:  displayName(email, metadata),
		Email: email,
		Role:  role(metadata),
	}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func displayName(email string, metadata map[string]any) string {
	if n, ok := metadata["name"].(string); ok && strings.TrimSpace(n) != "" {
		return n
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return DefaultDisplayName
}

func role(metadata map[string]any) Role {
	if r, ok := metadata["role"].(string); ok && r == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}
