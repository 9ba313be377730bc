package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrInvalidSession   = fmt.Errorf("invalid session")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// AuthError reports a failed authorization code exchange or token refresh.
type AuthError struct {
	Op  string // exchange or refresh
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrAuthFailed, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrAuthFailed, e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches [ErrAuthFailed], and [ErrRefreshFailed] for refresh failures.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed || (target == ErrRefreshFailed && e.Op == "refresh")
}

// RemoteServiceError is a non-2xx or undecodable response from the Spotify API.
type RemoteServiceError struct {
	Status  int
	Message string
}

func (e *RemoteServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify API error: status %d", e.Status)
	}
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

func (e *RemoteServiceError) Is(target error) bool { return target == ErrAPIRequest }

// NotFoundError reports a track URI the catalog does not know.
type NotFoundError struct {
	URI string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTrackNotFound, e.URI)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrTrackNotFound }

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// IsNotFound reports whether err is (or wraps) a [NotFoundError].
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
