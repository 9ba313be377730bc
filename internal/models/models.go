// package models defines the data model for the recommender web service
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/oauth2"
)

// TokenBundle is the OAuth credential set held in a user's session.
//
// A nil bundle means the session is logged out.
type TokenBundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        []string  `json:"scope,omitempty"`
}

// Validate reports whether the bundle carries a usable access token.
func (b *TokenBundle) Validate() error {
	if b == nil {
		return fmt.Errorf("token bundle is nil")
	}
	if strings.TrimSpace(b.AccessToken) == "" {
		return fmt.Errorf("token bundle has no access token")
	}
	return nil
}

// Expired reports whether now is at or past the bundle's expiry.
// A zero expiry never expires.
func (b *TokenBundle) Expired(now time.Time) bool {
	if b.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(b.ExpiresAt)
}

// OAuth2 converts the bundle into an [oauth2.Token].
func (b *TokenBundle) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		TokenType:    b.TokenType,
		Expiry:       b.ExpiresAt,
	}
}

// NewTokenBundle builds a bundle from an [oauth2.Token] returned by the token endpoint.
//
// Spotify reports granted scopes as a space separated "scope" field.
func NewTokenBundle(t *oauth2.Token) *TokenBundle {
	b := &TokenBundle{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    t.Expiry,
	}
	if scope, ok := t.Extra("scope").(string); ok {
		b.Scope = strings.Fields(scope)
	}
	return b
}

// PlaylistRequest is the validated input of the playlist creation form.
type PlaylistRequest struct {
	Name      string
	TrackURIs []string
	Public    bool
}

// Validate checks the request has a name and at least one track.
func (p PlaylistRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &shared.ValidationError{Field: "playlist_name", Message: "Please provide a playlist name."}
	}
	if len(p.TrackURIs) == 0 {
		return &shared.ValidationError{Field: "track_uris", Message: "Please select at least one track to add to the playlist."}
	}
	return nil
}

// ProfileSummary is the view model rendered on the profile page.
type ProfileSummary struct {
	Profile       *User
	PlaylistCount int
	TopGenres     []string
	TopArtists    []Artist
	TopTracks     []Track
}
