package subscriptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/dbx"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	query :=
		`SELECT id, user_id, status, plan_id, expires_at, metadata, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = $1
		 `

	var (
		s        models.Subscription
		plan     sql.NullString
		metadata []byte
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Status, &plan, &s.ExpiresAt, &metadata, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.Plan = plan.String
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &s, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	metadata, err := encodeMetadata(s.Metadata)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO subscriptions (id, user_id, status, plan_id, expires_at, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, string(s.Status), nullString(s.Plan), s.ExpiresAt, metadata, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Subscription) error {
	metadata, err := encodeMetadata(s.Metadata)
	if err != nil {
		return err
	}

	query :=
		`UPDATE subscriptions
		 SET status = $1, plan_id = $2, expires_at = $3, metadata = $4, updated_at = $5
		 WHERE user_id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		string(s.Status), nullString(s.Plan), s.ExpiresAt, metadata, s.UpdatedAt, s.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
