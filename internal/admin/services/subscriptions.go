// Package services implements the subscription administration operations on
// top of the GoTrue admin API and the subscriptions table.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/admin/gotrue"
	"github.com/employcd/employcd/internal/admin/repositories/repomanager"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/dbx"
	"github.com/employcd/employcd/internal/logging"
)

var (
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidDays    = errors.New("days must be a positive integer")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoSubscription = errors.New("user has no subscription")
)

// UserDirectory is the part of the GoTrue admin API the service needs.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*gotrue.User, error)
	CreateUser(ctx context.Context, email, password string, metadata map[string]any) (*gotrue.User, error)
}

type SubscriptionService struct {
	db          *sql.DB
	users       UserDirectory
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewSubscriptionService(db *sql.DB, users UserDirectory, rm repomanager.RepositoryManager, log logging.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, users: users, repomanager: rm, log: log, now: time.Now}
}

// StatusReport describes a user's subscription at a point in time.
type StatusReport struct {
	User         *gotrue.User
	Subscription *models.Subscription
	Active       bool
	// Lapsed is set for rows still marked active whose expiry has passed.
	Lapsed   bool
	DaysLeft int
}

func (s *SubscriptionService) Status(ctx context.Context, email string) (*StatusReport, error) {
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return nil, err
	}

	sub, err := s.getSubscription(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	r := &StatusReport{User: user, Subscription: sub}
	if sub == nil {
		return r, nil
	}

	now := s.now()
	r.Active = sub.IsActive(now)
	r.Lapsed = sub.Status == models.SubscriptionActive && !r.Active
	if r.Active {
		r.DaysLeft = daysUntil(now, sub.ExpiresAt)
	}
	return r, nil
}

// Extend pushes the expiry of an existing subscription by days and marks it
// active. Users without a subscription get ErrNoSubscription.
func (s *SubscriptionService) Extend(ctx context.Context, email string, days int) (*models.Subscription, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return nil, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Subscription, error) {
		sub, err := s.getSubscription(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, ErrNoSubscription
		}

		sub.ExpiresAt = sub.ExpiresAt.AddDate(0, 0, days)
		sub.Status = models.SubscriptionActive
		sub.UpdatedAt = s.now().UTC()
		if err := s.repomanager.Subscriptions(tx).Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("extend subscription: %w", err)
		}
		s.log.Info(ctx, "subscription extended", "user_id", user.ID, "days", days)
		return sub, nil
	})
}

// Cancel marks the subscription cancelled. The expiry is left untouched.
func (s *SubscriptionService) Cancel(ctx context.Context, email string) (*models.Subscription, error) {
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return nil, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Subscription, error) {
		sub, err := s.getSubscription(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, ErrNoSubscription
		}

		sub.Status = models.SubscriptionCancelled
		sub.UpdatedAt = s.now().UTC()
		if err := s.repomanager.Subscriptions(tx).Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("cancel subscription: %w", err)
		}
		s.log.Info(ctx, "subscription cancelled", "user_id", user.ID)
		return sub, nil
	})
}

// ActivateResult reports whether Activate inserted a new row.
type ActivateResult struct {
	Subscription *models.Subscription
	Created      bool
}

// Activate sets the subscription active for days starting now, creating the
// row if the user has none. An empty plan keeps the stored plan.
func (s *SubscriptionService) Activate(ctx context.Context, email, plan string, days int) (*ActivateResult, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	user, err := s.lookupUser(ctx, email)
	if err != nil {
		return nil, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*ActivateResult, error) {
		repo := s.repomanager.Subscriptions(tx)
		sub, err := s.getSubscription(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}

		now := s.now().UTC()
		expires := now.AddDate(0, 0, days)

		if sub != nil {
			sub.Status = models.SubscriptionActive
			sub.ExpiresAt = expires
			sub.UpdatedAt = now
			if plan != "" {
				sub.Plan = plan
			}
			if err := repo.Update(ctx, sub); err != nil {
				return nil, fmt.Errorf("activate subscription: %w", err)
			}
			s.log.Info(ctx, "subscription reactivated", "user_id", user.ID, "days", days)
			return &ActivateResult{Subscription: sub}, nil
		}

		sub, err = repo.Insert(ctx, &models.Subscription{
			UserID:    user.ID,
			Status:    models.SubscriptionActive,
			Plan:      plan,
			ExpiresAt: expires,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create subscription: %w", err)
		}
		s.log.Info(ctx, "subscription created", "user_id", user.ID, "days", days)
		return &ActivateResult{Subscription: sub, Created: true}, nil
	})
}

// Migrate brings the subscriptions schema up to date.
func (s *SubscriptionService) Migrate(ctx context.Context) error {
	return s.repomanager.RunMigrations(ctx, s.db)
}

func (s *SubscriptionService) lookupUser(ctx context.Context, email string) (*gotrue.User, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// getSubscription maps a missing row to (nil, nil).
func (s *SubscriptionService) getSubscription(ctx context.Context, db dbx.DBTX, userID string) (*models.Subscription, error) {
	sub, err := s.repomanager.Subscriptions(db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func daysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}
