package auth

import (
	"fmt"
	"strings"
)

// Reason classifies an authentication failure.
type Reason string

const (
	// ReasonDeclined means the user declined the device-code prompt.
	ReasonDeclined Reason = "declined"
	// ReasonExpired means the device code expired before the user completed
	// authentication.
	ReasonExpired Reason = "expired"
	// ReasonMissingClientID means no OAuth client id was configured.
	ReasonMissingClientID Reason = "missing_client_id"
	// ReasonNoAccount means no stored account could be resolved.
	ReasonNoAccount Reason = "no_account"
	// ReasonAmbiguousAccount means multiple accounts exist and none was selected.
	ReasonAmbiguousAccount Reason = "ambiguous_account"
	// ReasonNoRefreshToken means the stored credential cannot be renewed.
	ReasonNoRefreshToken Reason = "no_refresh_token"
	// ReasonNotAuthenticated means no usable credential and no refresh path exists.
	ReasonNotAuthenticated Reason = "not_authenticated"
	// ReasonProviderError is any other error returned by the identity provider.
	ReasonProviderError Reason = "provider_error"
	// ReasonRefreshFailed means a refresh-token exchange was rejected.
	ReasonRefreshFailed Reason = "refresh_failed"
)

// Error is a typed authentication failure.
type Error struct {
	Reason      Reason
	Code        string   // provider error code, for provider errors
	Description string   // provider error description
	Accounts    []string // populated for ambiguous-account errors
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonDeclined:
		return "authentication was declined by the user"
	case ReasonExpired:
		return "device code expired, please try again"
	case ReasonMissingClientID:
		return "no client id configured, set FLOK_CLIENT_ID or pass --client-id"
	case ReasonNoAccount:
		return "not authenticated, run `flok auth login` first"
	case ReasonAmbiguousAccount:
		return fmt.Sprintf("multiple accounts (%s), set FLOK_ACCOUNT or run `flok auth switch`",
			strings.Join(e.Accounts, ", "))
	case ReasonNoRefreshToken:
		return "no refresh token available, please re-authenticate"
	case ReasonNotAuthenticated:
		return "not authenticated, run `flok auth login` first"
	case ReasonRefreshFailed:
		return fmt.Sprintf("token refresh failed (%s): %s", e.Code, e.Description)
	default:
		return fmt.Sprintf("oauth error (%s): %s", e.Code, e.Description)
	}
}

// Is matches errors by Reason so callers can use errors.Is against the
// sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

var (
	// ErrNotAuthenticated is returned when no usable credential exists.
	ErrNotAuthenticated = &Error{Reason: ReasonNotAuthenticated}
	// ErrDeclined is returned when the user declines the device-code prompt.
	ErrDeclined = &Error{Reason: ReasonDeclined}
	// ErrExpired is returned when the device code expires during polling.
	ErrExpired = &Error{Reason: ReasonExpired}
	// ErrNoAccount is returned when account resolution finds nothing.
	ErrNoAccount = &Error{Reason: ReasonNoAccount}
)

func providerError(code, description string) *Error {
	return &Error{Reason: ReasonProviderError, Code: code, Description: description}
}
