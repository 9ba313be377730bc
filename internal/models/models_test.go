package models

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/oauth2"
)

func TestTokenBundle(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		var nilBundle *TokenBundle
		if nilBundle.Validate() == nil {
			t.Error("expected nil bundle to be invalid")
		}
		if (&TokenBundle{AccessToken: "  "}).Validate() == nil {
			t.Error("expected blank access token to be invalid")
		}
		if err := (&TokenBundle{AccessToken: "a"}).Validate(); err != nil {
			t.Errorf("expected valid bundle, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		expiry := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		b := &TokenBundle{AccessToken: "a", ExpiresAt: expiry}

		tests := []struct {
			name string
			now  time.Time
			want bool
		}{
			{"before expiry", expiry.Add(-time.Second), false},
			{"at expiry", expiry, true},
			{"after expiry", expiry.Add(time.Second), true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := b.Expired(tt.now); got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}

		if (&TokenBundle{AccessToken: "a"}).Expired(time.Now()) {
			t.Error("zero expiry should never expire")
		}
	})

	t.Run("NewTokenBundle", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		tok := (&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       expiry,
		}).WithExtra(map[string]any{"scope": "user-top-read  playlist-modify-private"})

		b := NewTokenBundle(tok)
		if b.AccessToken != "access" || b.RefreshToken != "refresh" || !b.ExpiresAt.Equal(expiry) {
			t.Errorf("unexpected bundle %+v", b)
		}
		if len(b.Scope) != 2 || b.Scope[1] != "playlist-modify-private" {
			t.Errorf("unexpected scope %v", b.Scope)
		}

		back := b.OAuth2()
		if back.AccessToken != "access" || back.RefreshToken != "refresh" || !back.Expiry.Equal(expiry) {
			t.Errorf("unexpected oauth2 token %+v", back)
		}
	})
}

func TestPlaylistRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   PlaylistRequest
		field string
	}{
		{"valid", PlaylistRequest{Name: "Mix", TrackURIs: []string{"spotify:track:x"}}, ""},
		{"blank name", PlaylistRequest{Name: " ", TrackURIs: []string{"spotify:track:x"}}, "playlist_name"},
		{"no tracks", PlaylistRequest{Name: "Mix"}, "track_uris"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			var verr *shared.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("expected validation error on %s, got %v", tt.field, err)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Error("expected ErrInvalidInput")
			}
		})
	}
}

func TestParseTrackID(t *testing.T) {
	const id = "4uLU6hMCjMI75M1A2tKUQC"

	tests := []struct {
		name string
		ref  string
		ok   bool
	}{
		{"uri", "spotify:track:" + id, true},
		{"open url", "https://open.spotify.com/track/" + id, true},
		{"open url with query", "https://open.spotify.com/track/" + id + "?si=abc", true},
		{"localized url", "https://open.spotify.com/intl-de/track/" + id, true},
		{"bare id", id, true},
		{"padded", "  spotify:track:" + id + " ", true},
		{"album uri", "spotify:album:" + id, false},
		{"album url", "https://open.spotify.com/album/" + id, false},
		{"short id", "spotify:track:abc", false},
		{"bad characters", "spotify:track:4uLU6hMCjMI75M1A2tKU-C", false},
		{"extra segments", "spotify:track:" + id + ":extra", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTrackID(tt.ref)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != id {
				t.Errorf("expected %s, got %s", id, got)
			}
		})
	}

	if TrackURI(id) != "spotify:track:"+id {
		t.Error("unexpected canonical uri")
	}
}

func TestTrack(t *testing.T) {
	track := Track{Artists: []Artist{{Name: "Slowdive"}, {Name: "Mojave 3"}}}
	if got := track.ArtistNames(); got != "Slowdive, Mojave 3" {
		t.Errorf("unexpected artist names %q", got)
	}
	if (User{ID: "u1"}).Name() != "u1" {
		t.Error("expected id fallback for missing display name")
	}
}
