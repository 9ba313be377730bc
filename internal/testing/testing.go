// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
)

// MockAPI is a test double for [services.API] that counts calls per method.
//
// Track returns Known[uri] when present, TrackErrs[uri] when set, and a [shared.NotFoundError] otherwise.
type MockAPI struct {
	User          *models.User
	PlaylistTotal int
	Artists       []models.Artist
	Tracks        []models.Track
	Recs          []models.Track
	Known         map[string]*models.Track

	ProfileErr       error
	PlaylistCountErr error
	TopErr           error
	RecsErr          error
	TrackErrs        map[string]error
	CreateErr        error
	AddErr           error

	mu       sync.Mutex
	calls    map[string]int
	Seeds    []string
	Lookups  []string
	Created  []models.Playlist
	AddedTo  string
	AddedURI []string
}

func (m *MockAPI) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockAPI) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (m *MockAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockAPI) Profile(ctx context.Context) (*models.User, error) {
	m.record("Profile")
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	if m.User == nil {
		return &models.User{ID: "mock-user", DisplayName: "Mock User"}, nil
	}
	return m.User, nil
}

func (m *MockAPI) PlaylistCount(ctx context.Context) (int, error) {
	m.record("PlaylistCount")
	return m.PlaylistTotal, m.PlaylistCountErr
}

func (m *MockAPI) TopArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	m.record("TopArtists")
	if m.TopErr != nil {
		return nil, m.TopErr
	}
	return head(m.Artists, limit), nil
}

func (m *MockAPI) TopTracks(ctx context.Context, limit int) ([]models.Track, error) {
	m.record("TopTracks")
	if m.TopErr != nil {
		return nil, m.TopErr
	}
	return head(m.Tracks, limit), nil
}

func (m *MockAPI) Recommendations(ctx context.Context, seeds []string, limit int) ([]models.Track, error) {
	if len(seeds) == 0 {
		return []models.Track{}, nil
	}
	m.record("Recommendations")
	m.Seeds = seeds
	if m.RecsErr != nil {
		return nil, m.RecsErr
	}
	return head(m.Recs, limit), nil
}

func (m *MockAPI) Track(ctx context.Context, uri string) (*models.Track, error) {
	m.record("Track")
	m.Lookups = append(m.Lookups, uri)
	if err, ok := m.TrackErrs[uri]; ok {
		return nil, err
	}
	if t, ok := m.Known[uri]; ok {
		return t, nil
	}
	return nil, &shared.NotFoundError{URI: uri}
}

func (m *MockAPI) CreatePlaylist(ctx context.Context, userID, name string, public bool) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	p := models.Playlist{ID: "mock-playlist", Name: name, Public: public}
	m.Created = append(m.Created, p)
	return &p, nil
}

func (m *MockAPI) AddItems(ctx context.Context, playlistID string, uris []string) error {
	m.record("AddItems")
	if m.AddErr != nil {
		return m.AddErr
	}
	m.AddedTo = playlistID
	m.AddedURI = append(m.AddedURI, uris...)
	return nil
}

func head[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// KnownTracks builds a Known map from uri → track name.
func KnownTracks(names map[string]string) map[string]*models.Track {
	known := make(map[string]*models.Track, len(names))
	for uri, name := range names {
		t := &models.Track{Name: name, URI: uri}
		if id, ok := models.ParseTrackID(uri); ok {
			t.ID = id
			t.URI = models.TrackURI(id)
		}
		known[uri] = t
	}
	return known
}

// MemoryTokens is an unsynchronised in-memory [session.TokenStore].
type MemoryTokens struct {
	Bundle *models.TokenBundle
	Sets   int
	Clears int
}

func (m *MemoryTokens) Get(ctx context.Context) (*models.TokenBundle, error) { return m.Bundle, nil }

func (m *MemoryTokens) Set(ctx context.Context, b *models.TokenBundle) error {
	m.Sets++
	m.Bundle = b
	return nil
}

func (m *MemoryTokens) Clear(ctx context.Context) error {
	m.Clears++
	m.Bundle = nil
	return nil
}

// MockAuthenticator is a test double for [services.Authenticator].
//
// ValidToken returns the stored bundle when ValidErr is nil.
type MockAuthenticator struct {
	URL         string
	Bundle      *models.TokenBundle
	ExchangeErr error
	ValidErr    error

	Exchanges int
	Codes     []string
}

func (m *MockAuthenticator) AuthorizeURL() string {
	if m.URL == "" {
		return "https://accounts.example.test/authorize?client_id=mock"
	}
	return m.URL
}

func (m *MockAuthenticator) Exchange(ctx context.Context, code string, store session.TokenStore) (*models.TokenBundle, error) {
	m.Exchanges++
	m.Codes = append(m.Codes, code)
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	b := m.Bundle
	if b == nil {
		b = &models.TokenBundle{AccessToken: "mock-access", RefreshToken: "mock-refresh"}
	}
	return b, store.Set(ctx, b)
}

func (m *MockAuthenticator) ValidToken(ctx context.Context, store session.TokenStore) (*models.TokenBundle, error) {
	if m.ValidErr != nil {
		return nil, m.ValidErr
	}
	b, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return b, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
