package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Store keys for persisted token material.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyExpiresAt    = "expires_at"
)

// expiryBuffer is subtracted from a token's lifetime when deciding whether
// it is still usable, so a token never expires mid-request.
const expiryBuffer = 5 * time.Minute

// TokenSet holds one account's credential material. Instances are replaced,
// never mutated, on refresh or re-login.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    time.Time
}

// usable reports whether the access token can still satisfy reads at now,
// applying the expiry buffer.
func (t *TokenSet) usable(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Add(expiryBuffer).Before(t.ExpiresAt)
}

// OAuth2 converts the token set to the x/oauth2 representation.
func (t *TokenSet) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.ExpiresAt,
	}
}

// DeviceCodeChallenge is the provider's response to a device-code request.
// It is consumed once by the polling loop and never persisted.
type DeviceCodeChallenge struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
}

// tokenResponse is the provider's wire format for both the device-code
// exchange and the refresh-token exchange.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

func (r *tokenResponse) toTokenSet(now time.Time) *TokenSet {
	return &TokenSet{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		Scope:        r.Scope,
		ExpiresAt:    now.Add(time.Duration(r.ExpiresIn) * time.Second),
	}
}

// oauthErrorResponse is the provider's fixed error shape. Decoding into this
// small struct (rather than untyped maps) keeps error handling typed; when
// decoding fails the raw status code is used instead.
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
