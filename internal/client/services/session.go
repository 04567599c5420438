package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/employcd/employcd/internal/client/client"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/logging"
)

// AuthFailedMessage is shown for every failed sign-in, whatever the cause.
const AuthFailedMessage = "Anmeldung fehlgeschlagen. Bitte überprüfen Sie Ihre Zugangsdaten."

const DefaultRequestTimeout = 10 * time.Second

type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State   State
	User    *models.User
	Loading bool
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

type SessionOption func(*SessionManager)

// WithRequestTimeout bounds every backend call.
func WithRequestTimeout(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithClock replaces time.Now for expiry and entitlement checks.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// SessionManager owns the signed-in user and the entitlement flag.
//
// Mutating operations (Bootstrap, Login, Logout, CheckSubscription) are
// serialized; Snapshot and Watch never wait for backend calls.
type SessionManager struct {
	backend client.Client
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time

	tokens *TokenStore

	// op serializes session mutations.
	op sync.Mutex

	mu          sync.Mutex
	state       State
	user        *models.User
	accessToken string
	loading     bool
	watchers    map[int]chan Snapshot
	nextWatcher int
}

func NewSessionManager(backend client.Client, storage SecureStorage, logger logging.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		backend:  backend,
		logger:   logger.With("module", "session"),
		timeout:  DefaultRequestTimeout,
		now:      time.Now,
		state:    StateUnknown,
		loading:  true,
		watchers: make(map[int]chan Snapshot),
	}
	for _, o := range opts {
		o(m)
	}
	m.tokens = NewTokenStore(storage, logger, m.now)
	return m
}

// Snapshot returns the current state. The user is a copy.
func (m *SessionManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) State() State { return m.Snapshot().State }

func (m *SessionManager) User() *models.User { return m.Snapshot().User }

func (m *SessionManager) Loading() bool { return m.Snapshot().Loading }

func (m *SessionManager) IsAuthenticated() bool { return m.Snapshot().IsAuthenticated() }

// Watch delivers the latest snapshot after every change. Slow readers only
// see the most recent one. The returned func unsubscribes.
func (m *SessionManager) Watch() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextWatcher
	m.nextWatcher++
	ch := make(chan Snapshot, 1)
	m.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.watchers, id)
			close(ch)
		})
	}
}

// Bootstrap restores the session from the stored token. Any failure ends in
// StateAnonymous with the stored token removed.
func (m *SessionManager) Bootstrap(ctx context.Context) State {
	m.op.Lock()
	defer m.op.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	tok, err := m.tokens.Load(ctx)
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		m.logger.Info(ctx, "stored session expired")
		m.setAnonymous()
		return StateAnonymous
	case err != nil:
		m.setAnonymous()
		return StateAnonymous
	}

	cctx, cancel := m.callCtx(ctx)
	user, err := m.backend.GetCurrentUser(cctx, tok.Token)
	cancel()
	if err != nil {
		m.logger.Warn(ctx, "restore session", "error", err)
		m.tokens.Remove(ctx)
		m.setAnonymous()
		return StateAnonymous
	}

	user.HasActiveSubscription = m.entitled(ctx, tok.Token, user.ID)
	m.setAuthenticated(user, tok.Token)
	return StateAuthenticated
}

// Login signs in and persists the session. It reports false on any failure;
// callers show AuthFailedMessage.
func (m *SessionManager) Login(ctx context.Context, email, password string) bool {
	if err := m.login(ctx, email, password); err != nil {
		m.logger.Warn(ctx, "login failed", "error", err)
		return false
	}
	return true
}

func (m *SessionManager) login(ctx context.Context, email, password string) error {
	m.op.Lock()
	defer m.op.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	cctx, cancel := m.callCtx(ctx)
	sess, err := m.backend.SignIn(cctx, email, password)
	cancel()
	if err != nil {
		m.keepAnonymous()
		return classifySignInError(err)
	}

	if _, err := m.tokens.Save(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
		if !errors.Is(err, common.ErrStorageUnavailable) {
			m.keepAnonymous()
			return err
		}
		m.logger.Warn(ctx, "session not persisted", "error", err)
	}

	user := sess.User
	user.HasActiveSubscription = m.entitled(ctx, sess.AccessToken, user.ID)
	m.setAuthenticated(user, sess.AccessToken)
	return nil
}

// Logout removes the stored token and clears the user before telling the
// backend; backend failures are only logged.
func (m *SessionManager) Logout(ctx context.Context) {
	m.op.Lock()
	defer m.op.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	m.tokens.Remove(ctx)
	m.setAnonymous()

	if token == "" {
		return
	}
	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	if err := m.backend.SignOut(cctx, token); err != nil {
		m.logger.Warn(ctx, "backend sign-out", "error", err)
	}
}

// CheckSubscription re-derives the entitlement flag from a fresh lookup.
func (m *SessionManager) CheckSubscription(ctx context.Context) bool {
	m.op.Lock()
	defer m.op.Unlock()

	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return false
	}
	userID, token := m.user.ID, m.accessToken
	m.mu.Unlock()

	active := m.entitled(ctx, token, userID)

	m.mu.Lock()
	if m.user != nil && m.user.ID == userID {
		m.user.HasActiveSubscription = active
	}
	m.publishLocked()
	m.mu.Unlock()

	return active
}

// entitled evaluates the entitlement fact; lookup failures count as not
// entitled.
func (m *SessionManager) entitled(ctx context.Context, token, userID string) bool {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()

	sub, err := m.backend.GetSubscription(cctx, token, userID)
	if err != nil {
		m.logger.Warn(ctx, "subscription lookup", "error", fmt.Errorf("%w: %v", common.ErrEntitlementUnknown, err))
		return false
	}
	return sub.IsActive(m.now())
}

// BackendReachable reports whether the backend answers its health check.
func (m *SessionManager) BackendReachable(ctx context.Context) bool {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()

	if err := m.backend.Ping(cctx); err != nil {
		m.logger.Warn(ctx, "backend health check", "error", err)
		return false
	}
	return true
}

func (m *SessionManager) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

func classifySignInError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", common.ErrInvalidCredentials, err)
	}
	if errors.Is(err, common.ErrNoSession) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrTransportFailure, err)
}

func (m *SessionManager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = v
	m.publishLocked()
}

func (m *SessionManager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.user = nil
	m.accessToken = ""
	m.publishLocked()
}

// keepAnonymous leaves an existing session alone but resolves Unknown.
func (m *SessionManager) keepAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateUnknown {
		m.state = StateAnonymous
		m.publishLocked()
	}
}

func (m *SessionManager) setAuthenticated(u *models.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.user = u
	m.accessToken = token
	m.publishLocked()
}

func (m *SessionManager) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state, Loading: m.loading}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *SessionManager) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
