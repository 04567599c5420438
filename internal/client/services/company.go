package services

import (
	"context"
	"database/sql"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/client/repositories/settings"
	"github.com/employcd/employcd/internal/dbx"
)

const (
	keyCompanyName      = "company.name"
	keyCompanyPrimary   = "company.primary_color"
	keyCompanySecondary = "company.secondary_color"
)

// CompanyService reads and writes the company branding settings.
type CompanyService struct {
	db *sql.DB
}

func NewCompanyService(db *sql.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Get returns the stored branding with defaults for unset fields.
func (s *CompanyService) Get(ctx context.Context) (models.Company, error) {
	all, err := settings.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return models.Company{}, err
	}

	c := models.DefaultCompany()
	if v, ok := all[keyCompanyName]; ok {
		c.Name = v
	}
	if v, ok := all[keyCompanyPrimary]; ok {
		c.PrimaryColor = v
	}
	if v, ok := all[keyCompanySecondary]; ok {
		c.SecondaryColor = v
	}
	return c, nil
}

// Save validates c and stores all fields in one transaction.
func (s *CompanyService) Save(ctx context.Context, c models.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyCompanyName, c.Name); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyCompanyPrimary, c.PrimaryColor); err != nil {
			return err
		}
		return repo.Set(ctx, keyCompanySecondary, c.SecondaryColor)
	})
}

// Reset removes the stored branding.
func (s *CompanyService) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		for _, k := range []string{keyCompanyName, keyCompanyPrimary, keyCompanySecondary} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
