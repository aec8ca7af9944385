package auth

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/RyanLisse/flok/internal/logging"
)

// RefreshRecorder receives token lifecycle outcomes. Implemented by
// instrumentation.Metrics; nil disables recording.
type RefreshRecorder interface {
	RecordTokenRefresh(ctx context.Context, result string)
	RecordLogin(ctx context.Context, result string)
}

// Manager owns the token lifecycle: it caches one TokenSet per account in
// memory, persists the authoritative copy in its Store, refreshes
// near-expiry tokens, and serializes concurrent refresh per account so only
// one exchange is in flight at a time.
type Manager struct {
	store   Store
	flow    *DeviceCodeFlow
	logger  *slog.Logger
	metrics RefreshRecorder

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]*TokenSet

	now func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the structured logger.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithManagerMetrics sets the lifecycle metrics recorder.
func WithManagerMetrics(r RefreshRecorder) ManagerOption {
	return func(m *Manager) { m.metrics = r }
}

// SetMetrics binds the lifecycle metrics recorder after construction. The
// serve path uses it because the instrumentation provider is built after
// the manager; call it before the manager starts serving tokens.
func (m *Manager) SetMetrics(r RefreshRecorder) {
	m.metrics = r
}

// NewManager creates a token lifecycle manager over the given store and
// device-code flow.
func NewManager(store Store, flow *DeviceCodeFlow, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		flow:   flow,
		logger: slog.Default(),
		cache:  map[string]*TokenSet{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessToken returns a valid access token for the account:
//
//  1. the in-memory TokenSet, when fresh (5-minute expiry buffer)
//  2. the persisted TokenSet, when fresh
//  3. a refresh-token exchange, persisting the result
//
// Otherwise it fails with ErrNotAuthenticated. Concurrent callers for the
// same account share a single refresh; different accounts refresh
// independently.
func (m *Manager) AccessToken(ctx context.Context, account string) (string, error) {
	m.mu.Lock()
	cached := m.cache[account]
	m.mu.Unlock()
	if cached.usable(m.now()) {
		return cached.AccessToken, nil
	}

	v, err, _ := m.group.Do(account, func() (any, error) {
		return m.resolve(ctx, account)
	})
	if err != nil {
		return "", err
	}
	return v.(*TokenSet).AccessToken, nil
}

// resolve runs under the account's single flight.
func (m *Manager) resolve(ctx context.Context, account string) (*TokenSet, error) {
	// Another flight may have resolved while we queued.
	m.mu.Lock()
	cached := m.cache[account]
	m.mu.Unlock()
	if cached.usable(m.now()) {
		return cached, nil
	}

	stored, err := m.loadTokenSet(account)
	if err != nil {
		return nil, err
	}
	if stored.usable(m.now()) {
		m.setCache(account, stored)
		return stored, nil
	}

	refreshToken := ""
	if cached != nil {
		refreshToken = cached.RefreshToken
	}
	if refreshToken == "" && stored != nil {
		refreshToken = stored.RefreshToken
	}
	if refreshToken != "" {
		ts, err := m.flow.Refresh(ctx, refreshToken)
		if err == nil {
			if err := m.persist(account, ts); err != nil {
				return nil, err
			}
			m.setCache(account, ts)
			m.record(ctx, true)
			return ts, nil
		}
		// Refresh failure falls through to not-authenticated; the error is
		// logged so a revoked token can be told apart from an unreachable
		// provider when debugging.
		m.logger.Warn("token refresh failed",
			logging.Operation("auth.refresh"),
			logging.Account(account),
			logging.Err(err))
		m.record(ctx, false)
	}

	return nil, ErrNotAuthenticated
}

func (m *Manager) record(ctx context.Context, ok bool) {
	if m.metrics == nil {
		return
	}
	if ok {
		m.metrics.RecordTokenRefresh(ctx, logging.StatusSuccess)
	} else {
		m.metrics.RecordTokenRefresh(ctx, logging.StatusError)
	}
}

// Login runs the interactive device-code flow for the account. onChallenge
// is invoked once with the user code, verification URI, and the provider's
// ready-made message before polling blocks; the caller renders it however
// it likes.
func (m *Manager) Login(ctx context.Context, account string, onChallenge func(userCode, verificationURI, message string)) (string, error) {
	challenge, err := m.flow.RequestDeviceCode(ctx)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordLogin(ctx, logging.StatusError)
		}
		return "", err
	}

	if onChallenge != nil {
		onChallenge(challenge.UserCode, challenge.VerificationURI, challenge.Message)
	}

	ts, err := m.flow.PollForToken(ctx, challenge)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordLogin(ctx, logging.StatusError)
		}
		return "", err
	}

	if err := m.persist(account, ts); err != nil {
		return "", err
	}
	m.setCache(account, ts)
	if m.metrics != nil {
		m.metrics.RecordLogin(ctx, logging.StatusSuccess)
	}
	m.logger.Info("authenticated",
		logging.Operation("auth.login"),
		logging.Account(account))
	return account, nil
}

// Logout removes all persisted material and the cache entry for the
// account. It is idempotent.
func (m *Manager) Logout(account string) error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyExpiresAt} {
		if err := m.store.Delete(account, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	delete(m.cache, account)
	m.mu.Unlock()
	return nil
}

// Authenticated reports whether stored credentials exist for the account.
func (m *Manager) Authenticated(account string) bool {
	if _, ok, _ := m.store.Load(account, KeyRefreshToken); ok {
		return true
	}
	ts, err := m.loadTokenSet(account)
	return err == nil && ts.usable(m.now())
}

// Source returns a token provider bound to one account, suitable for the
// graph client. It also satisfies oauth2.TokenSource.
func (m *Manager) Source(account string) *AccountSource {
	return &AccountSource{manager: m, account: account}
}

func (m *Manager) setCache(account string, ts *TokenSet) {
	m.mu.Lock()
	m.cache[account] = ts
	m.mu.Unlock()
}

// loadTokenSet composes a TokenSet from the store's keys. A missing access
// token yields nil without error.
func (m *Manager) loadTokenSet(account string) (*TokenSet, error) {
	access, ok, err := m.store.Load(account, KeyAccessToken)
	if err != nil || !ok {
		return nil, err
	}
	ts := &TokenSet{AccessToken: access, TokenType: "Bearer"}
	if refresh, ok, err := m.store.Load(account, KeyRefreshToken); err != nil {
		return nil, err
	} else if ok {
		ts.RefreshToken = refresh
	}
	if expires, ok, err := m.store.Load(account, KeyExpiresAt); err != nil {
		return nil, err
	} else if ok {
		if unix, err := strconv.ParseInt(expires, 10, 64); err == nil {
			ts.ExpiresAt = time.Unix(unix, 0)
		}
	}
	return ts, nil
}

// persist writes the TokenSet's material to the store. A response without a
// refresh token keeps the previously stored one, matching provider behavior
// of omitting unchanged refresh tokens.
func (m *Manager) persist(account string, ts *TokenSet) error {
	if err := m.store.Save(account, KeyAccessToken, ts.AccessToken); err != nil {
		return err
	}
	if ts.RefreshToken != "" {
		if err := m.store.Save(account, KeyRefreshToken, ts.RefreshToken); err != nil {
			return err
		}
	}
	return m.store.Save(account, KeyExpiresAt, strconv.FormatInt(ts.ExpiresAt.Unix(), 10))
}

// AccountSource adapts the manager to a single account.
type AccountSource struct {
	manager *Manager
	account string
}

// AccessToken implements graph.TokenProvider.
func (s *AccountSource) AccessToken(ctx context.Context) (string, error) {
	return s.manager.AccessToken(ctx, s.account)
}

// Token implements oauth2.TokenSource for interoperability with libraries
// that expect one.
func (s *AccountSource) Token() (*oauth2.Token, error) {
	if _, err := s.manager.AccessToken(context.Background(), s.account); err != nil {
		return nil, err
	}
	s.manager.mu.Lock()
	ts := s.manager.cache[s.account]
	s.manager.mu.Unlock()
	return ts.OAuth2(), nil
}
