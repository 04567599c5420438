package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/employcd/employcd/internal/admin/gotrue"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/dbx"
)

// TestPassword is shared by all seeded accounts.
const TestPassword = "securepassword123"

type seedSubscription struct {
	Status   models.SubscriptionStatus
	Plan     string
	Offset   time.Duration
	Metadata map[string]any
}

type seedUser struct {
	Email        string
	Metadata     map[string]any
	Subscription *seedSubscription
}

func testUsers() []seedUser {
	return []seedUser{
		{
			Email:    "admin@example.com",
			Metadata: map[string]any{"name": "Admin Benutzer", "role": "admin"},
		},
		{
			Email:    "activeuser@example.com",
			Metadata: map[string]any{"name": "Aktiver Benutzer", "role": "user"},
			Subscription: &seedSubscription{
				Status: models.SubscriptionActive,
				Plan:   "basic",
				Offset: 365 * 24 * time.Hour,
				Metadata: map[string]any{
					"payment_id": "test_payment_1",
					"features":   []any{"feature1", "feature2"},
				},
			},
		},
		{
			Email:    "expireduser@example.com",
			Metadata: map[string]any{"name": "Abgelaufener Benutzer", "role": "user"},
			Subscription: &seedSubscription{
				Status: models.SubscriptionExpired,
				Plan:   "basic",
				Offset: -30 * 24 * time.Hour,
				Metadata: map[string]any{
					"payment_id": "test_payment_2",
					"features":   []any{"feature1"},
				},
			},
		},
	}
}

type SubscriptionAction string

const (
	SubscriptionNone    SubscriptionAction = ""
	SubscriptionCreated SubscriptionAction = "created"
	SubscriptionUpdated SubscriptionAction = "updated"
)

// SeedResult is the outcome for one test account. Err is set when the
// account could not be fully seeded; the other accounts are still processed.
type SeedResult struct {
	Email        string
	UserExisted  bool
	Subscription SubscriptionAction
	Err          error
}

// Seed creates the development accounts and their subscriptions. Existing
// users are reused and existing subscriptions overwritten.
func (s *SubscriptionService) Seed(ctx context.Context) ([]SeedResult, error) {
	users := testUsers()
	results := make([]SeedResult, 0, len(users))

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.seedUser(ctx, u))
	}
	return results, nil
}

func (s *SubscriptionService) seedUser(ctx context.Context, u seedUser) SeedResult {
	res := SeedResult{Email: u.Email}

	user, err := s.users.FindUserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		res.UserExisted = true
	case errors.Is(err, common.ErrorNotFound):
		user, err = s.users.CreateUser(ctx, u.Email, TestPassword, u.Metadata)
		if err != nil {
			res.Err = fmt.Errorf("create user: %w", err)
			return res
		}
	default:
		res.Err = fmt.Errorf("find user: %w", err)
		return res
	}

	if u.Subscription == nil {
		return res
	}

	action, err := s.seedSubscription(ctx, user, u.Subscription)
	if err != nil {
		res.Err = err
		return res
	}
	res.Subscription = action
	s.log.Info(ctx, "seeded user", "email", u.Email, "subscription", string(action))
	return res
}

func (s *SubscriptionService) seedSubscription(ctx context.Context, user *gotrue.User, want *seedSubscription) (SubscriptionAction, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (SubscriptionAction, error) {
		repo := s.repomanager.Subscriptions(tx)
		existing, err := s.getSubscription(ctx, tx, user.ID)
		if err != nil {
			return SubscriptionNone, err
		}

		now := s.now().UTC()
		sub := &models.Subscription{
			UserID:    user.ID,
			Status:    want.Status,
			Plan:      want.Plan,
			ExpiresAt: now.Add(want.Offset),
			Metadata:  want.Metadata,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if existing != nil {
			if err := repo.Update(ctx, sub); err != nil {
				return SubscriptionNone, fmt.Errorf("update subscription: %w", err)
			}
			return SubscriptionUpdated, nil
		}
		if _, err := repo.Insert(ctx, sub); err != nil {
			return SubscriptionNone, fmt.Errorf("insert subscription: %w", err)
		}
		return SubscriptionCreated, nil
	})
}
