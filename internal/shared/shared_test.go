package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want log.Level
	}{
		{name: "empty defaults to info", in: "", want: log.InfoLevel},
		{name: "debug", in: "debug", want: log.DebugLevel},
		{name: "warn", in: "warn", want: log.WarnLevel},
		{name: "garbage defaults to info", in: "loud", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if !IsID(a) {
		t.Errorf("expected %q to parse as uuid", a)
	}
	if IsID("not-a-uuid") {
		t.Error("expected garbage to be rejected")
	}
}

func TestErrors(t *testing.T) {
	t.Run("AuthError", func(t *testing.T) {
		cause := fmt.Errorf("invalid_grant")
		err := fmt.Errorf("wrapped: %w", &AuthError{Op: "refresh", Err: cause})

		if !errors.Is(err, ErrAuthFailed) {
			t.Error("expected AuthError to match ErrAuthFailed")
		}
		if !errors.Is(err, ErrRefreshFailed) {
			t.Error("expected refresh AuthError to match ErrRefreshFailed")
		}
		if !errors.Is(err, cause) {
			t.Error("expected AuthError to unwrap its cause")
		}
		if errors.Is(&AuthError{Op: "exchange"}, ErrRefreshFailed) {
			t.Error("exchange failure should not match ErrRefreshFailed")
		}
	})

	t.Run("RemoteServiceError", func(t *testing.T) {
		err := &RemoteServiceError{Status: 502, Message: "Bad gateway"}
		if !errors.Is(err, ErrAPIRequest) {
			t.Error("expected RemoteServiceError to match ErrAPIRequest")
		}
		if err.Error() != "spotify API error: status 502: Bad gateway" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("NotFoundError", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", &NotFoundError{URI: "spotify:track:x"})
		if !IsNotFound(err) {
			t.Error("expected IsNotFound to see wrapped NotFoundError")
		}
		if !errors.Is(err, ErrTrackNotFound) {
			t.Error("expected NotFoundError to match ErrTrackNotFound")
		}
		if IsNotFound(&RemoteServiceError{Status: 500}) {
			t.Error("remote errors are not not-found errors")
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		err := &ValidationError{Field: "playlist_name", Message: "Please provide a playlist name."}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("expected ValidationError to match ErrInvalidInput")
		}
		if err.Error() != "Please provide a playlist name." {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
