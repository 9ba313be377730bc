// package services defines the OAuth manager and the Spotify Web API client
package services

import (
	"context"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/session"
)

// API is the subset of the Spotify Web API used by the recommender.
type API interface {
	Profile(ctx context.Context) (*models.User, error)
	PlaylistCount(ctx context.Context) (int, error)
	TopArtists(ctx context.Context, limit int) ([]models.Artist, error)
	TopTracks(ctx context.Context, limit int) ([]models.Track, error)

	// Recommendations returns up to limit tracks seeded from seeds (track ids).
	// An empty seed list yields an empty result without contacting the API.
	Recommendations(ctx context.Context, seeds []string, limit int) ([]models.Track, error)

	// Track looks up a single track. Unknown or malformed URIs yield a [shared.NotFoundError].
	Track(ctx context.Context, uri string) (*models.Track, error)

	CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error)
	AddItems(ctx context.Context, playlistID string, uris []string) error
}

// Authenticator obtains and maintains a session's token bundle.
type Authenticator interface {
	AuthorizeURL() string
	Exchange(ctx context.Context, code string, store session.TokenStore) (*models.TokenBundle, error)
	ValidToken(ctx context.Context, store session.TokenStore) (*models.TokenBundle, error)
}

// ClientFactory builds an [API] from a valid token bundle.
type ClientFactory func(bundle *models.TokenBundle) API

var (
	_ API           = (*SpotifyClient)(nil)
	_ Authenticator = (*OAuthManager)(nil)
)
