package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/dbx"
)

const dateLayout = time.DateOnly

const selectColumns = `SELECT id, first_name, last_name, position, department, employee_id,
	issue_date, expiry_date, photo_path, created_at FROM cards`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, c *models.Card) error {
	query := `INSERT INTO cards (id, first_name, last_name, position, department, employee_id,
			issue_date, expiry_date, photo_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Position, c.Department, c.EmployeeID,
		c.IssueDate.Format(dateLayout), c.ExpiryDate.Format(dateLayout), c.PhotoPath, c.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	return r.query(ctx, selectColumns+` ORDER BY created_at DESC, id`)
}

func (r *SQLiteRepository) Search(ctx context.Context, q string) ([]*models.Card, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return r.GetAll(ctx)
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	return r.query(ctx, selectColumns+` WHERE
			lower(first_name || ' ' || last_name) LIKE ? ESCAPE '\'
			OR lower(department) LIKE ? ESCAPE '\'
			OR lower(employee_id) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id`, pattern, pattern, pattern)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanCard reads stored dates as local calendar days.
func scanCard(s scanner) (*models.Card, error) {
	var (
		c              models.Card
		issue, expiry  string
		createdAtMilli int64
	)
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Position, &c.Department, &c.EmployeeID,
		&issue, &expiry, &c.PhotoPath, &createdAtMilli); err != nil {
		return nil, err
	}

	var err error
	if c.IssueDate, err = time.ParseInLocation(dateLayout, issue, time.Local); err != nil {
		return nil, fmt.Errorf("card %s issue date: %w", c.ID, err)
	}
	if c.ExpiryDate, err = time.ParseInLocation(dateLayout, expiry, time.Local); err != nil {
		return nil, fmt.Errorf("card %s expiry date: %w", c.ID, err)
	}
	c.CreatedAt = time.UnixMilli(createdAtMilli)
	return &c, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
