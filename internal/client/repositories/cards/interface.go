package cards

import (
	"context"

	"github.com/employcd/employcd/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, c *models.Card) error
	// GetAll returns every card, newest first.
	GetAll(ctx context.Context) ([]*models.Card, error)
	// Search matches q case-insensitively against names, department and
	// employee id.
	Search(ctx context.Context, q string) ([]*models.Card, error)
	// GetByID returns common.ErrorNotFound when no card has id.
	GetByID(ctx context.Context, id string) (*models.Card, error)
	// DeleteByID returns common.ErrorNotFound when no card has id.
	DeleteByID(ctx context.Context, id string) error
}
