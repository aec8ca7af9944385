package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newStoreDir(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir())
}

// seedTokens writes a stored credential for the account.
func seedTokens(t *testing.T, store Store, account, access, refresh string, expiresAt time.Time) {
	t.Helper()
	if err := store.Save(account, KeyAccessToken, access); err != nil {
		t.Fatal(err)
	}
	if refresh != "" {
		if err := store.Save(account, KeyRefreshToken, refresh); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Save(account, KeyExpiresAt, strconv.FormatInt(expiresAt.Unix(), 10)); err != nil {
		t.Fatal(err)
	}
}

// refreshServer counts refresh exchanges and returns a fresh token set.
func refreshServer(t *testing.T, refreshes *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "at-refreshed",
			RefreshToken: "rt-refreshed",
			ExpiresIn:    3600,
			TokenType:    "Bearer",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAccessTokenStoredFreshTokenNoNetwork(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-fresh", "rt-1", time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no provider call expected for a fresh stored token")
	}))
	defer srv.Close()

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	token, err := m.AccessToken(context.Background(), "work")
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "at-fresh" {
		t.Errorf("token = %q, want at-fresh", token)
	}
}

func TestAccessTokenRefreshesNearExpiry(t *testing.T) {
	store := newStoreDir(t)
	// Inside the 5-minute expiry buffer, so a refresh is required.
	seedTokens(t, store, "work", "at-stale", "rt-1", time.Now().Add(time.Minute))

	var refreshes atomic.Int32
	srv := refreshServer(t, &refreshes)

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	token, err := m.AccessToken(context.Background(), "work")
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "at-refreshed" {
		t.Errorf("token = %q, want at-refreshed", token)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refresh count = %d, want 1", refreshes.Load())
	}

	// The refreshed material is persisted.
	access, ok, err := store.Load("work", KeyAccessToken)
	if err != nil || !ok || access != "at-refreshed" {
		t.Errorf("persisted access token = %q, ok=%v, err=%v", access, ok, err)
	}
	refresh, ok, _ := store.Load("work", KeyRefreshToken)
	if !ok || refresh != "rt-refreshed" {
		t.Errorf("persisted refresh token = %q", refresh)
	}
}

func TestAccessTokenConcurrentCallersShareOneRefresh(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-stale", "rt-1", time.Now().Add(-time.Hour))

	var refreshes atomic.Int32
	srv := refreshServer(t, &refreshes)

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := m.AccessToken(context.Background(), "work")
			if err != nil {
				t.Errorf("AccessToken() error = %v", err)
			}
			if token != "at-refreshed" {
				t.Errorf("token = %q", token)
			}
		}()
	}
	wg.Wait()

	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh count = %d, want 1 shared refresh", got)
	}
}

func TestAccessTokenKeepsRefreshTokenWhenOmitted(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-stale", "rt-keep", time.Now().Add(-time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Provider omits the refresh token when it is unchanged.
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "at-new", ExpiresIn: 3600})
	}))
	defer srv.Close()

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	if _, err := m.AccessToken(context.Background(), "work"); err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	refresh, ok, _ := store.Load("work", KeyRefreshToken)
	if !ok || refresh != "rt-keep" {
		t.Errorf("refresh token = %q, want the previous rt-keep preserved", refresh)
	}
}

func TestAccessTokenRefreshFailureIsNotAuthenticated(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-stale", "rt-revoked", time.Now().Add(-time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(oauthErrorResponse{Error: "invalid_grant"})
	}))
	defer srv.Close()

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	_, err := m.AccessToken(context.Background(), "work")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestAccessTokenNoCredentials(t *testing.T) {
	m := NewManager(newStoreDir(t), NewDeviceCodeFlow("client-1", "", nil))
	_, err := m.AccessToken(context.Background(), "nobody")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestAccountsRefreshIndependently(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-w", "rt-w", time.Now().Add(-time.Hour))
	seedTokens(t, store, "personal", "at-p", "rt-p", time.Now().Add(time.Hour))

	var refreshes atomic.Int32
	srv := refreshServer(t, &refreshes)

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	if _, err := m.AccessToken(context.Background(), "work"); err != nil {
		t.Fatalf("work: %v", err)
	}
	token, err := m.AccessToken(context.Background(), "personal")
	if err != nil {
		t.Fatalf("personal: %v", err)
	}
	if token != "at-p" {
		t.Errorf("personal token = %q, want the stored at-p untouched", token)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refresh count = %d, want 1 (only the stale account)", refreshes.Load())
	}
}

func TestLoginPersistsAndCaches(t *testing.T) {
	store := newStoreDir(t)
	p := &fakeProvider{
		t:         t,
		challenge: testChallenge(),
		pollResponses: []pollResponse{
			{http.StatusOK, tokenResponse{AccessToken: "at-login", RefreshToken: "rt-login", ExpiresIn: 3600, TokenType: "Bearer"}},
		},
	}
	flow, _ := newTestFlow(t, p)
	m := NewManager(store, flow)

	var gotCode, gotURI string
	account, err := m.Login(context.Background(), "work", func(userCode, verificationURI, message string) {
		gotCode, gotURI = userCode, verificationURI
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if account != "work" {
		t.Errorf("account = %q", account)
	}
	if gotCode != "ABCD-1234" || gotURI != "https://microsoft.com/devicelogin" {
		t.Errorf("challenge callback got (%q, %q)", gotCode, gotURI)
	}

	// Subsequent token requests are served from cache without the provider.
	token, err := m.AccessToken(context.Background(), "work")
	if err != nil || token != "at-login" {
		t.Errorf("AccessToken() = %q, %v", token, err)
	}
	if access, ok, _ := store.Load("work", KeyAccessToken); !ok || access != "at-login" {
		t.Errorf("persisted access token = %q", access)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at", "rt", time.Now().Add(time.Hour))
	m := NewManager(store, NewDeviceCodeFlow("client-1", "", nil))

	if err := m.Logout("work"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if m.Authenticated("work") {
		t.Error("still authenticated after logout")
	}
	if err := m.Logout("work"); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
	if err := m.Logout("never-existed"); err != nil {
		t.Errorf("Logout() for unknown account error = %v", err)
	}
}

func TestAuthenticated(t *testing.T) {
	store := newStoreDir(t)
	m := NewManager(store, NewDeviceCodeFlow("client-1", "", nil))

	if m.Authenticated("work") {
		t.Error("Authenticated() = true for empty store")
	}
	seedTokens(t, store, "work", "at", "rt", time.Now().Add(time.Hour))
	if !m.Authenticated("work") {
		t.Error("Authenticated() = false with stored credentials")
	}
}

func TestAccountSourceToken(t *testing.T) {
	store := newStoreDir(t)
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	seedTokens(t, store, "work", "at-src", "rt-src", expiry)
	m := NewManager(store, NewDeviceCodeFlow("client-1", "", nil))

	tok, err := m.Source("work").Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "at-src" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if !tok.Expiry.Equal(expiry) {
		t.Errorf("Expiry = %v, want %v", tok.Expiry, expiry)
	}
}

// lifecycleRecorder captures refresh and login outcomes.
type lifecycleRecorder struct {
	mu        sync.Mutex
	refreshes []string
	logins    []string
}

func (r *lifecycleRecorder) RecordTokenRefresh(_ context.Context, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes = append(r.refreshes, result)
}

func (r *lifecycleRecorder) RecordLogin(_ context.Context, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, result)
}

func TestSetMetricsRecordsRefreshOutcomes(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-stale", "rt-1", time.Now().Add(-time.Hour))

	var refreshes atomic.Int32
	srv := refreshServer(t, &refreshes)

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)

	// The recorder is bound after construction, the way the serve path
	// binds it once the instrumentation provider exists.
	rec := &lifecycleRecorder{}
	m.SetMetrics(rec)

	if _, err := m.AccessToken(context.Background(), "work"); err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if len(rec.refreshes) != 1 || rec.refreshes[0] != "success" {
		t.Errorf("refresh outcomes = %v, want [success]", rec.refreshes)
	}
}

func TestSetMetricsRecordsRefreshFailure(t *testing.T) {
	store := newStoreDir(t)
	seedTokens(t, store, "work", "at-stale", "rt-revoked", time.Now().Add(-time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(oauthErrorResponse{Error: "invalid_grant"})
	}))
	defer srv.Close()

	flow := NewDeviceCodeFlow("client-1", "", nil, WithAuthority(srv.URL), WithFlowHTTPClient(srv.Client()))
	m := NewManager(store, flow)
	rec := &lifecycleRecorder{}
	m.SetMetrics(rec)

	if _, err := m.AccessToken(context.Background(), "work"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
	if len(rec.refreshes) != 1 || rec.refreshes[0] != "error" {
		t.Errorf("refresh outcomes = %v, want [error]", rec.refreshes)
	}
}
