package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SecureStorage is the Credential Store as seen from the UI process.
type SecureStorage interface {
	Set(ctx context.Context, key, value string) bool
	Get(ctx context.Context, key string) *string
	Delete(ctx context.Context, key string) bool
}

// TokenStore persists the session token under common.AuthTokenKey.
type TokenStore struct {
	storage SecureStorage
	logger  logging.Logger
	now     func() time.Time
}

func NewTokenStore(storage SecureStorage, logger logging.Logger, now func() time.Time) *TokenStore {
	if now == nil {
		now = time.Now
	}
	return &TokenStore{storage: storage, logger: logger.With("module", "token_store"), now: now}
}

// Save stores token with the expiry read from its JWT "exp" claim. The
// signature is not verified: the backend does that on every request.
func (s *TokenStore) Save(ctx context.Context, token, refreshToken string) (*models.SessionToken, error) {
	exp, err := tokenExpiry(token)
	if err != nil {
		return nil, err
	}

	st := &models.SessionToken{Token: token, ExpiresAt: exp.UnixMilli(), RefreshToken: refreshToken}
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}
	if !s.storage.Set(ctx, common.AuthTokenKey, string(b)) {
		return st, common.ErrStorageUnavailable
	}
	return st, nil
}

// Load returns the stored token. A missing token yields common.ErrorNotFound;
// an expired or malformed one is deleted and yields common.ErrTokenExpired or
// common.ErrInvalidToken.
func (s *TokenStore) Load(ctx context.Context) (*models.SessionToken, error) {
	raw := s.storage.Get(ctx, common.AuthTokenKey)
	if raw == nil {
		return nil, common.ErrorNotFound
	}

	var st models.SessionToken
	if err := json.Unmarshal([]byte(*raw), &st); err != nil || st.Token == "" {
		s.logger.Warn(ctx, "discarding malformed stored token")
		s.Remove(ctx)
		return nil, common.ErrInvalidToken
	}

	if st.Expired(s.now()) {
		s.Remove(ctx)
		return nil, common.ErrTokenExpired
	}
	return &st, nil
}

// Remove deletes the stored token.
func (s *TokenStore) Remove(ctx context.Context) bool {
	ok := s.storage.Delete(ctx, common.AuthTokenKey)
	if !ok {
		s.logger.Warn(ctx, "could not delete stored token")
	}
	return ok
}

func tokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, errors.New("missing exp claim"))
	}
	return claims.ExpiresAt.Time, nil
}
