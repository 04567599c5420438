package client

import (
	"context"

	"github.com/employcd/employcd/internal/client/models"
)

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Client is the backend contract used by the session manager.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	// GetSubscription returns nil and no error when the user has no row.
	GetSubscription(ctx context.Context, accessToken, userID string) (*models.Subscription, error)
	Ping(ctx context.Context) error
}
