// Spotify Web API implementation of [API]
//
// Endpoints based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// maxSeeds is the number of seed items the recommendations endpoint accepts.
	maxSeeds = 5
	// maxBatch is the number of items the add-items endpoint accepts per call.
	maxBatch = 100
)

type pagedArtists struct {
	Items []models.Artist `json:"items"`
	Total int             `json:"total"`
}

type pagedTracks struct {
	Items []models.Track `json:"items"`
	Total int            `json:"total"`
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyClient is a thin facade over the Spotify Web API bound to one access token.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyClient creates a client that authorizes every request with bundle's access token.
//
// base supplies the underlying transport and may be nil. The bundle is never refreshed here.
func NewSpotifyClient(baseURL string, bundle *models.TokenBundle, base *http.Client) *SpotifyClient {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if base == nil {
		base = http.DefaultClient
	}

	return &SpotifyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &oauth2.Transport{
				Base:   base.Transport,
				Source: oauth2.StaticTokenSource(bundle.OAuth2()),
			},
			Timeout: base.Timeout,
		},
	}
}

// NewClientFactory returns a [ClientFactory] producing [SpotifyClient]s against baseURL.
func NewClientFactory(baseURL string, base *http.Client) ClientFactory {
	return func(bundle *models.TokenBundle) API {
		return NewSpotifyClient(baseURL, bundle, base)
	}
}

// doRequest performs an authenticated request, encoding body and decoding into result when non-nil.
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrServiceUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &shared.RemoteServiceError{
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("failed to decode response: %v", err),
			}
		}
	}
	return nil
}

func remoteError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		return &shared.RemoteServiceError{Status: resp.StatusCode, Message: body.Error.Message}
	}
	return &shared.RemoteServiceError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Profile retrieves the current user's profile.
func (s *SpotifyClient) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PlaylistCount returns the number of playlists the current user owns or follows.
func (s *SpotifyClient) PlaylistCount(ctx context.Context) (int, error) {
	var page struct {
		Total int `json:"total"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/me/playlists?limit=1", nil, &page); err != nil {
		return 0, err
	}
	return page.Total, nil
}

// TopArtists returns the user's most listened artists.
func (s *SpotifyClient) TopArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d", clampLimit(limit, 20, 50))

	var page pagedArtists
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// TopTracks returns the user's most listened tracks.
func (s *SpotifyClient) TopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d", clampLimit(limit, 20, 50))

	var page pagedTracks
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Recommendations returns tracks seeded from up to five track ids.
func (s *SpotifyClient) Recommendations(ctx context.Context, seeds []string, limit int) ([]models.Track, error) {
	if len(seeds) == 0 {
		return []models.Track{}, nil
	}
	if len(seeds) > maxSeeds {
		seeds = seeds[:maxSeeds]
	}

	q := url.Values{}
	q.Set("seed_tracks", strings.Join(seeds, ","))
	q.Set("limit", fmt.Sprint(clampLimit(limit, 20, 100)))

	var response struct {
		Tracks []models.Track `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/recommendations?"+q.Encode(), nil, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// Track retrieves a single track by URI, URL or id.
func (s *SpotifyClient) Track(ctx context.Context, uri string) (*models.Track, error) {
	id, ok := models.ParseTrackID(uri)
	if !ok {
		return nil, &shared.NotFoundError{URI: uri}
	}

	var track models.Track
	if err := s.doRequest(ctx, http.MethodGet, "/tracks/"+id, nil, &track); err != nil {
		var remote *shared.RemoteServiceError
		if errors.As(err, &remote) && (remote.Status == http.StatusNotFound || remote.Status == http.StatusBadRequest) {
			return nil, &shared.NotFoundError{URI: uri, Err: err}
		}
		return nil, err
	}
	return &track, nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	body := map[string]any{"name": name, "public": public}
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var playlist models.Playlist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}
	if playlist.ID == "" {
		return nil, &shared.RemoteServiceError{Status: http.StatusCreated, Message: "playlist id missing from response"}
	}
	return &playlist, nil
}

// AddItems appends uris to a playlist in order, in batches the API accepts.
func (s *SpotifyClient) AddItems(ctx context.Context, playlistID string, uris []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += maxBatch {
		end := min(start+maxBatch, len(uris))
		body := map[string]any{"uris": uris[start:end]}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
			return fmt.Errorf("failed to add items %d-%d: %w", start, end, err)
		}
	}
	return nil
}
