package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/employcd/employcd/internal/client/client"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(b *fakeBackend, st *memStorage, opts ...SessionOption) *SessionManager {
	opts = append([]SessionOption{WithClock(fixedClock)}, opts...)
	return NewSessionManager(b, st, logging.Discard(), opts...)
}

func storeToken(t *testing.T, st *memStorage, token string, expiresAt time.Time) {
	t.Helper()
	b, err := json.Marshal(models.SessionToken{Token: token, ExpiresAt: expiresAt.UnixMilli()})
	require.NoError(t, err)
	st.data[common.AuthTokenKey] = string(b)
}

func userBackend() *fakeBackend {
	return &fakeBackend{
		getCurrentUser: func(_ context.Context, token string) (*models.User, error) {
			return models.NewUser("u1", "max@example.com", nil), nil
		},
		getSubscription: func(_ context.Context, _, userID string) (*models.Subscription, error) {
			return activeSub(userID, testNow.Add(24*time.Hour)), nil
		},
	}
}

func TestNewSessionManager_StartsUnknownAndLoading(t *testing.T) {
	m := newManager(&fakeBackend{}, newMemStorage())
	s := m.Snapshot()
	assert.Equal(t, StateUnknown, s.State)
	assert.True(t, s.Loading)
	assert.False(t, s.IsAuthenticated())
}

func TestBootstrap_NoToken(t *testing.T) {
	b := &fakeBackend{}
	m := newManager(b, newMemStorage())

	assert.Equal(t, StateAnonymous, m.Bootstrap(context.Background()))
	assert.False(t, m.Loading())
	assert.Nil(t, m.User())
	assert.Zero(t, b.userCalls.Load())
}

func TestBootstrap_ExpiredTokenRemoved(t *testing.T) {
	st := newMemStorage()
	storeToken(t, st, "old", testNow.Add(-time.Second))
	b := userBackend()
	m := newManager(b, st)

	assert.Equal(t, StateAnonymous, m.Bootstrap(context.Background()))
	assert.False(t, st.has(common.AuthTokenKey), "expired record is deleted")
	assert.Zero(t, b.userCalls.Load(), "backend is not contacted")
	assert.False(t, m.Loading())
}

func TestBootstrap_ValidToken(t *testing.T) {
	st := newMemStorage()
	storeToken(t, st, "at", testNow.Add(time.Hour))

	var gotToken string
	b := userBackend()
	inner := b.getCurrentUser
	b.getCurrentUser = func(ctx context.Context, token string) (*models.User, error) {
		gotToken = token
		return inner(ctx, token)
	}
	m := newManager(b, st)

	assert.Equal(t, StateAuthenticated, m.Bootstrap(context.Background()))
	assert.Equal(t, "at", gotToken)

	s := m.Snapshot()
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.Loading)
	assert.Equal(t, "max", s.User.Name)
	assert.True(t, s.User.HasActiveSubscription)
	assert.True(t, st.has(common.AuthTokenKey))
}

func TestBootstrap_CurrentUserFailureRemovesToken(t *testing.T) {
	st := newMemStorage()
	storeToken(t, st, "at", testNow.Add(time.Hour))
	b := &fakeBackend{
		getCurrentUser: func(context.Context, string) (*models.User, error) { return nil, client.ErrUnauthorized },
	}
	m := newManager(b, st)

	assert.Equal(t, StateAnonymous, m.Bootstrap(context.Background()))
	assert.False(t, st.has(common.AuthTokenKey))
	assert.Zero(t, b.subCalls.Load())
}

func TestBootstrap_SubscriptionFailureIsNotEntitled(t *testing.T) {
	st := newMemStorage()
	storeToken(t, st, "at", testNow.Add(time.Hour))
	b := userBackend()
	b.getSubscription = func(context.Context, string, string) (*models.Subscription, error) {
		return nil, client.ErrUnavailable
	}
	m := newManager(b, st)

	assert.Equal(t, StateAuthenticated, m.Bootstrap(context.Background()))
	assert.False(t, m.User().HasActiveSubscription)
}

func TestBootstrap_MalformedTokenRemoved(t *testing.T) {
	st := newMemStorage()
	st.data[common.AuthTokenKey] = "garbage"
	m := newManager(userBackend(), st)

	assert.Equal(t, StateAnonymous, m.Bootstrap(context.Background()))
	assert.False(t, st.has(common.AuthTokenKey))
}

func TestBootstrap_BackendCallHasTimeout(t *testing.T) {
	st := newMemStorage()
	storeToken(t, st, "at", testNow.Add(time.Hour))
	b := &fakeBackend{
		getCurrentUser: func(ctx context.Context, _ string) (*models.User, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	m := newManager(b, st, WithRequestTimeout(30*time.Millisecond))

	done := make(chan State, 1)
	go func() { done <- m.Bootstrap(context.Background()) }()

	select {
	case s := <-done:
		assert.Equal(t, StateAnonymous, s)
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap did not time out")
	}
}

func loginBackend(t *testing.T, exp time.Time) *fakeBackend {
	b := userBackend()
	token := mintJWT(t, exp)
	b.signIn = func(_ context.Context, email, password string) (*client.Session, error) {
		if password != "secret" {
			return nil, client.ErrUnauthorized
		}
		return &client.Session{AccessToken: token, RefreshToken: "rt", User: models.NewUser("u1", email, nil)}, nil
	}
	return b
}

func TestLogin_Success(t *testing.T) {
	st := newMemStorage()
	exp := testNow.Add(time.Hour).Truncate(time.Second)
	m := newManager(loginBackend(t, exp), st)
	m.Bootstrap(context.Background())

	require.True(t, m.Login(context.Background(), "max@example.com", "secret"))

	s := m.Snapshot()
	assert.Equal(t, StateAuthenticated, s.State)
	assert.False(t, s.Loading)
	assert.Equal(t, "max@example.com", s.User.Email)
	assert.True(t, s.User.HasActiveSubscription)

	var stored models.SessionToken
	require.NoError(t, json.Unmarshal([]byte(st.data[common.AuthTokenKey]), &stored))
	assert.Equal(t, exp.UnixMilli(), stored.ExpiresAt)
	assert.Equal(t, "rt", stored.RefreshToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	st := newMemStorage()
	m := newManager(loginBackend(t, testNow.Add(time.Hour)), st)
	m.Bootstrap(context.Background())

	err := m.login(context.Background(), "max@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	assert.False(t, m.Login(context.Background(), "max@example.com", "wrong"))
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, m.Loading())
	assert.False(t, st.has(common.AuthTokenKey))
}

func TestLogin_TransportFailure(t *testing.T) {
	st := newMemStorage()
	b := &fakeBackend{signIn: func(context.Context, string, string) (*client.Session, error) {
		return nil, client.ErrUnavailable
	}}
	m := newManager(b, st)

	err := m.login(context.Background(), "a@b", "pw")
	require.ErrorIs(t, err, common.ErrTransportFailure)
	assert.Equal(t, StateAnonymous, m.State(), "unknown resolves to anonymous")
	assert.False(t, st.has(common.AuthTokenKey))
}

func TestLogin_MissingSession(t *testing.T) {
	b := &fakeBackend{signIn: func(context.Context, string, string) (*client.Session, error) {
		return nil, common.ErrNoSession
	}}
	m := newManager(b, newMemStorage())

	require.ErrorIs(t, m.login(context.Background(), "a@b", "pw"), common.ErrNoSession)
}

func TestLogin_TokenWithoutExpiryFails(t *testing.T) {
	st := newMemStorage()
	b := userBackend()
	b.signIn = func(_ context.Context, email, _ string) (*client.Session, error) {
		return &client.Session{AccessToken: "opaque", User: models.NewUser("u1", email, nil)}, nil
	}
	m := newManager(b, st)

	assert.False(t, m.Login(context.Background(), "a@b", "pw"))
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, st.has(common.AuthTokenKey))
}

func TestLogin_StorageUnavailableKeepsInMemorySession(t *testing.T) {
	st := newMemStorage()
	st.failSet = true
	m := newManager(loginBackend(t, testNow.Add(time.Hour)), st)

	assert.True(t, m.Login(context.Background(), "a@b", "secret"))
	assert.True(t, m.IsAuthenticated())
}

func TestLogin_LoadingDuringCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	b := loginBackend(t, testNow.Add(time.Hour))
	inner := b.signIn
	b.signIn = func(ctx context.Context, email, password string) (*client.Session, error) {
		close(entered)
		<-release
		return inner(ctx, email, password)
	}
	m := newManager(b, newMemStorage())
	m.Bootstrap(context.Background())

	done := make(chan bool, 1)
	go func() { done <- m.Login(context.Background(), "a@b", "wrong") }()

	<-entered
	assert.True(t, m.Loading(), "loading while the sign-in is in flight")
	close(release)

	assert.False(t, <-done)
	assert.False(t, m.Loading())
}

func TestLogout_BackendFailureStillClearsSession(t *testing.T) {
	st := newMemStorage()
	b := loginBackend(t, testNow.Add(time.Hour))
	var signedOut string
	b.signOut = func(_ context.Context, token string) error {
		signedOut = token
		return errors.New("network down")
	}
	m := newManager(b, st)
	require.True(t, m.Login(context.Background(), "a@b", "secret"))

	m.Logout(context.Background())

	assert.Equal(t, StateAnonymous, m.State())
	assert.Nil(t, m.User())
	assert.False(t, m.Loading())
	assert.False(t, st.has(common.AuthTokenKey))
	assert.NotEmpty(t, signedOut)
}

func TestLogout_ConcurrentCallsConverge(t *testing.T) {
	st := newMemStorage()
	b := loginBackend(t, testNow.Add(time.Hour))
	m := newManager(b, st)
	require.True(t, m.Login(context.Background(), "a@b", "secret"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Logout(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, st.has(common.AuthTokenKey))
	assert.Equal(t, int32(1), b.signOutCalls.Load(), "only the first logout reaches the backend")
}

func TestLogout_Anonymous(t *testing.T) {
	b := &fakeBackend{}
	m := newManager(b, newMemStorage())

	m.Logout(context.Background())
	assert.Equal(t, StateAnonymous, m.State())
	assert.Zero(t, b.signOutCalls.Load())
}

func TestCheckSubscription_NoUser(t *testing.T) {
	b := &fakeBackend{}
	m := newManager(b, newMemStorage())

	assert.False(t, m.CheckSubscription(context.Background()))
	assert.Zero(t, b.subCalls.Load())
}

func TestBackendReachable(t *testing.T) {
	b := &fakeBackend{}
	m := newManager(b, newMemStorage())
	assert.True(t, m.BackendReachable(context.Background()))

	b.pingErr = client.ErrUnavailable
	assert.False(t, m.BackendReachable(context.Background()))
}

func TestCheckSubscription_Scenarios(t *testing.T) {
	tomorrow := testNow.Add(24 * time.Hour)
	yesterday := testNow.Add(-24 * time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		err  error
		want bool
	}{
		{"active, expires tomorrow", activeSub("u1", tomorrow), nil, true},
		{"active, expired yesterday", activeSub("u1", yesterday), nil, false},
		{"no subscription", nil, nil, false},
		{"cancelled, expires tomorrow", &models.Subscription{UserID: "u1", Status: models.SubscriptionCancelled, ExpiresAt: tomorrow}, nil, false},
		{"lookup failure", nil, client.ErrUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := loginBackend(t, testNow.Add(time.Hour))
			m := newManager(b, newMemStorage())
			require.True(t, m.Login(context.Background(), "a@b", "secret"))
			require.True(t, m.User().HasActiveSubscription)

			b.getSubscription = func(context.Context, string, string) (*models.Subscription, error) {
				return tt.sub, tt.err
			}
			before := b.subCalls.Load()

			assert.Equal(t, tt.want, m.CheckSubscription(context.Background()))
			assert.Equal(t, tt.want, m.User().HasActiveSubscription)
			assert.Equal(t, before+1, b.subCalls.Load(), "every check performs a fresh lookup")
		})
	}
}

func TestWatch_ReceivesLatestSnapshot(t *testing.T) {
	m := newManager(loginBackend(t, testNow.Add(time.Hour)), newMemStorage())
	ch, stop := m.Watch()
	defer stop()

	require.True(t, m.Login(context.Background(), "a@b", "secret"))

	select {
	case s := <-ch:
		assert.Equal(t, StateAuthenticated, s.State)
		assert.False(t, s.Loading)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	stop()
	_, open := <-ch
	assert.False(t, open)
	stop()
}

func TestSnapshot_UserIsACopy(t *testing.T) {
	m := newManager(loginBackend(t, testNow.Add(time.Hour)), newMemStorage())
	require.True(t, m.Login(context.Background(), "a@b", "secret"))

	m.User().Name = "changed"
	assert.NotEqual(t, "changed", m.User().Name)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
