package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/employcd/employcd/internal/client/client"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fake secure storage ----

type memStorage struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
	deletes atomic.Int32
}

func newMemStorage() *memStorage { return &memStorage{data: map[string]string{}} }

func (m *memStorage) Set(_ context.Context, k, v string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return false
	}
	m.data[k] = v
	return true
}

func (m *memStorage) Get(_ context.Context, k string) *string {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	if !ok {
		return nil
	}
	return &v
}

func (m *memStorage) Delete(_ context.Context, k string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes.Add(1)
	delete(m.data, k)
	return true
}

func (m *memStorage) has(k string) bool {
	return m.Get(context.Background(), k) != nil
}

// ---- fake backend ----

type fakeBackend struct {
	signIn          func(ctx context.Context, email, password string) (*client.Session, error)
	signOut         func(ctx context.Context, token string) error
	getCurrentUser  func(ctx context.Context, token string) (*models.User, error)
	getSubscription func(ctx context.Context, token, userID string) (*models.Subscription, error)
	pingErr         error

	signOutCalls atomic.Int32
	subCalls     atomic.Int32
	userCalls    atomic.Int32
}

var _ client.Client = (*fakeBackend)(nil)

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*client.Session, error) {
	return f.signIn(ctx, email, password)
}

func (f *fakeBackend) SignOut(ctx context.Context, token string) error {
	f.signOutCalls.Add(1)
	if f.signOut == nil {
		return nil
	}
	return f.signOut(ctx, token)
}

func (f *fakeBackend) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	f.userCalls.Add(1)
	return f.getCurrentUser(ctx, token)
}

func (f *fakeBackend) GetSubscription(ctx context.Context, token, userID string) (*models.Subscription, error) {
	f.subCalls.Add(1)
	if f.getSubscription == nil {
		return nil, nil
	}
	return f.getSubscription(ctx, token, userID)
}

func (f *fakeBackend) Ping(context.Context) error { return f.pingErr }

// ---- helpers ----

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func mintJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func activeSub(userID string, exp time.Time) *models.Subscription {
	return &models.Subscription{UserID: userID, Status: models.SubscriptionActive, ExpiresAt: exp}
}
