// Package subscriptions persists subscription rows in the project Postgres
// database.
package subscriptions

import (
	"context"

	"github.com/employcd/employcd/internal/client/models"
)

type Repository interface {
	// GetByUserID returns common.ErrorNotFound when the user has no row.
	GetByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	Insert(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
	// Update rewrites status, plan, expiry and metadata of the row owned by
	// s.UserID.
	Update(ctx context.Context, s *models.Subscription) error
}
