package graph

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a Graph API failure.
type Kind string

const (
	// KindUnauthorized indicates the bearer token was rejected (HTTP 401).
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden indicates a missing permission (HTTP 403).
	KindForbidden Kind = "forbidden"
	// KindNotFound indicates the resource does not exist (HTTP 404).
	KindNotFound Kind = "not_found"
	// KindRateLimited indicates the retry budget for HTTP 429 was exhausted.
	KindRateLimited Kind = "rate_limited"
	// KindServerError indicates the retry budget for 5xx responses was exhausted.
	KindServerError Kind = "server_error"
	// KindNetworkError indicates the retry budget for transport-level failures
	// (timeouts, connection resets) was exhausted.
	KindNetworkError Kind = "network_error"
	// KindDecodingError indicates a response body could not be decoded.
	KindDecodingError Kind = "decoding_error"
	// KindHTTPError covers all other non-success statuses.
	KindHTTPError Kind = "http_error"
)

// Error is the typed failure returned by the Graph client. Transient
// conditions (429, 5xx, network) only surface as an Error once the retry
// budget is exhausted.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	RetryAfter time.Duration
	cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnauthorized:
		return "unauthorized: token rejected by Graph API, run `flok auth login`"
	case KindForbidden:
		return "forbidden: missing required Graph API permission"
	case KindNotFound:
		return "resource not found"
	case KindRateLimited:
		return fmt.Sprintf("rate limited by Graph API after retries (last Retry-After: %s)", e.RetryAfter)
	case KindServerError:
		return fmt.Sprintf("Graph API server error (%d) after retries", e.StatusCode)
	case KindNetworkError:
		return fmt.Sprintf("network error after retries: %v", e.cause)
	case KindDecodingError:
		return fmt.Sprintf("failed to decode Graph API response: %v", e.cause)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the Kind of err if it is a Graph *Error, or "" otherwise.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// IsNotFound reports whether err is a Graph not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsUnauthorized reports whether err is a Graph unauthorized error.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}
