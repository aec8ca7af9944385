package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RyanLisse/flok/internal/logging"
)

const (
	// defaultAuthority is the Microsoft identity platform endpoint root.
	defaultAuthority = "https://login.microsoftonline.com"

	// minPollInterval is the floor applied to the provider-specified polling
	// interval regardless of the server value.
	minPollInterval = 5 * time.Second

	// slowDownIncrement is added to the polling interval once per slow_down
	// response.
	slowDownIncrement = 5 * time.Second
)

// Provider error codes in device-code polling responses.
const (
	errAuthorizationPending  = "authorization_pending"
	errSlowDown              = "slow_down"
	errAuthorizationDeclined = "authorization_declined"
	errExpiredToken          = "expired_token"
)

// DefaultScopes requests the delegated permissions the CLI and MCP tools
// need, plus offline_access so a refresh token is issued.
var DefaultScopes = []string{
	"Mail.ReadWrite",
	"Calendars.ReadWrite",
	"Contacts.ReadWrite",
	"Files.ReadWrite",
	"User.Read",
	"offline_access",
}

// DeviceCodeFlow drives the OAuth2 device-code grant against the identity
// provider: request a challenge, poll the token endpoint, and exchange
// refresh tokens.
type DeviceCodeFlow struct {
	clientID   string
	tenant     string
	scopes     []string
	authority  string
	httpClient *http.Client
	logger     *slog.Logger

	// sleep is replaced in tests to avoid real polling delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// FlowOption configures a DeviceCodeFlow.
type FlowOption func(*DeviceCodeFlow)

// WithAuthority overrides the identity provider endpoint root. Used for
// tests and sovereign clouds.
func WithAuthority(authority string) FlowOption {
	return func(f *DeviceCodeFlow) { f.authority = strings.TrimRight(authority, "/") }
}

// WithFlowHTTPClient sets the HTTP client used for provider calls.
func WithFlowHTTPClient(h *http.Client) FlowOption {
	return func(f *DeviceCodeFlow) { f.httpClient = h }
}

// WithFlowLogger sets the structured logger.
func WithFlowLogger(l *slog.Logger) FlowOption {
	return func(f *DeviceCodeFlow) { f.logger = l }
}

// NewDeviceCodeFlow creates a flow for the given client id and tenant.
// An empty tenant defaults to "common"; nil scopes default to DefaultScopes.
func NewDeviceCodeFlow(clientID, tenant string, scopes []string, opts ...FlowOption) *DeviceCodeFlow {
	if tenant == "" {
		tenant = "common"
	}
	if scopes == nil {
		scopes = DefaultScopes
	}
	f := &DeviceCodeFlow{
		clientID:   clientID,
		tenant:     tenant,
		scopes:     scopes,
		authority:  defaultAuthority,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *DeviceCodeFlow) deviceCodeURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/devicecode", f.authority, f.tenant)
}

func (f *DeviceCodeFlow) tokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", f.authority, f.tenant)
}

// RequestDeviceCode asks the provider for a device-code challenge.
func (f *DeviceCodeFlow) RequestDeviceCode(ctx context.Context) (*DeviceCodeChallenge, error) {
	if f.clientID == "" {
		return nil, &Error{Reason: ReasonMissingClientID}
	}

	form := url.Values{
		"client_id": {f.clientID},
		"scope":     {strings.Join(f.scopes, " ")},
	}
	status, body, err := f.postForm(ctx, f.deviceCodeURL(), form)
	if err != nil {
		return nil, fmt.Errorf("device code request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, decodeProviderError(status, body)
	}

	var challenge DeviceCodeChallenge
	if err := json.Unmarshal(body, &challenge); err != nil {
		return nil, fmt.Errorf("failed to decode device code response: %w", err)
	}
	f.logger.Debug("device code issued",
		logging.Operation("auth.device_code"),
		slog.Int("expires_in", challenge.ExpiresIn),
		slog.Int("interval", challenge.Interval))
	return &challenge, nil
}

// PollForToken polls the token endpoint until the user completes, declines,
// or the challenge expires. It sleeps for the provider-specified interval
// (floored at minPollInterval) before each attempt and honors slow_down by
// stretching the interval. Cancelling ctx stops polling without leaking the
// timer; the challenge's ExpiresIn bounds total polling time.
func (f *DeviceCodeFlow) PollForToken(ctx context.Context, challenge *DeviceCodeChallenge) (*TokenSet, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(challenge.ExpiresIn)*time.Second)
	defer cancel()

	interval := time.Duration(challenge.Interval) * time.Second
	if interval < minPollInterval {
		interval = minPollInterval
	}

	form := url.Values{
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		"client_id":   {f.clientID},
		"device_code": {challenge.DeviceCode},
	}

	for {
		if err := f.sleep(ctx, interval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrExpired
			}
			return nil, err
		}

		status, body, err := f.postForm(ctx, f.tokenURL(), form)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrExpired
			}
			return nil, fmt.Errorf("token poll failed: %w", err)
		}

		if status >= 200 && status < 300 {
			var resp tokenResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode token response: %w", err)
			}
			return resp.toTokenSet(time.Now()), nil
		}

		var perr oauthErrorResponse
		if err := json.Unmarshal(body, &perr); err != nil {
			return nil, providerError(fmt.Sprintf("http_%d", status), string(body))
		}

		switch perr.Error {
		case errAuthorizationPending:
			// User has not completed sign-in yet.
		case errSlowDown:
			interval += slowDownIncrement
			f.logger.Debug("provider requested slower polling",
				logging.Operation("auth.poll"),
				slog.Duration("interval", interval))
		case errAuthorizationDeclined:
			return nil, ErrDeclined
		case errExpiredToken:
			return nil, ErrExpired
		default:
			return nil, providerError(perr.Error, perr.ErrorDescription)
		}
	}
}

// Refresh exchanges a refresh token for a new token set.
func (f *DeviceCodeFlow) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	if refreshToken == "" {
		return nil, &Error{Reason: ReasonNoRefreshToken}
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {f.clientID},
		"refresh_token": {refreshToken},
		"scope":         {strings.Join(f.scopes, " ")},
	}
	status, body, err := f.postForm(ctx, f.tokenURL(), form)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	if status < 200 || status >= 300 {
		var perr oauthErrorResponse
		if err := json.Unmarshal(body, &perr); err != nil {
			return nil, &Error{Reason: ReasonRefreshFailed, Code: fmt.Sprintf("http_%d", status)}
		}
		return nil, &Error{Reason: ReasonRefreshFailed, Code: perr.Error, Description: perr.ErrorDescription}
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return resp.toTokenSet(time.Now()), nil
}

func (f *DeviceCodeFlow) postForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeProviderError(status int, body []byte) error {
	var perr oauthErrorResponse
	if err := json.Unmarshal(body, &perr); err != nil || perr.Error == "" {
		return providerError(fmt.Sprintf("http_%d", status), string(body))
	}
	return providerError(perr.Error, perr.ErrorDescription)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
