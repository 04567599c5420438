package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/employcd/employcd/internal/client/client"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompanyService(t *testing.T) *CompanyService {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "company.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCompanyService(db)
}

func TestCompanyService_DefaultsWhenUnset(t *testing.T) {
	s := newCompanyService(t)

	c, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCompany(), c)
}

func TestCompanyService_SaveGetReset(t *testing.T) {
	s := newCompanyService(t)
	ctx := context.Background()

	in := models.Company{Name: "Muster GmbH", PrimaryColor: "#112233", SecondaryColor: "#aabbcc"}
	require.NoError(t, s.Save(ctx, in))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	require.NoError(t, s.Reset(ctx))
	got, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCompany(), got)
}

func TestCompanyService_SaveInvalid(t *testing.T) {
	s := newCompanyService(t)
	err := s.Save(context.Background(), models.Company{Name: "X", PrimaryColor: "red", SecondaryColor: "#000000"})
	require.ErrorIs(t, err, common.ErrValidation)

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Name)
}
