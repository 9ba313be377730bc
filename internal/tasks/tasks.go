package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/time/rate"
)

const (
	maxTopLimit                = 5
	defaultRecommendationLimit = 10
)

// Options configures a [Recommender].
type Options struct {
	TopLimit            int     // Top tracks/artists fetched, at most 5 (default: 5)
	RecommendationLimit int     // Recommendations returned (default: 10)
	LookupRate          float64 // Track lookups per second, 0 for unlimited
	Logger              *log.Logger
}

// Recommender implements the profile, recommendation and playlist operations.
type Recommender struct {
	topLimit int
	recLimit int
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewRecommender creates a [Recommender], filling unset options with defaults.
func NewRecommender(opts Options) *Recommender {
	if opts.TopLimit <= 0 || opts.TopLimit > maxTopLimit {
		opts.TopLimit = maxTopLimit
	}
	if opts.RecommendationLimit <= 0 {
		opts.RecommendationLimit = defaultRecommendationLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	r := &Recommender{
		topLimit: opts.TopLimit,
		recLimit: opts.RecommendationLimit,
		logger:   shared.WithLogger(opts.Logger, "component", "tasks"),
	}
	if opts.LookupRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.LookupRate), 1)
	}
	return r
}

// ProfileSummary gathers everything the profile page shows. Any API failure aborts.
func (r *Recommender) ProfileSummary(ctx context.Context, api services.API) (*models.ProfileSummary, error) {
	profile, err := api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	count, err := api.PlaylistCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}

	tracks, err := api.TopTracks(ctx, r.topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks: %w", err)
	}

	artists, err := api.TopArtists(ctx, r.topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top artists: %w", err)
	}

	return &models.ProfileSummary{
		Profile:       profile,
		PlaylistCount: count,
		TopGenres:     TopGenres(artists),
		TopArtists:    artists,
		TopTracks:     tracks,
	}, nil
}

// Recommendations seeds recommendations with the ids of the user's top tracks.
func (r *Recommender) Recommendations(ctx context.Context, api services.API) ([]models.Track, error) {
	top, err := api.TopTracks(ctx, r.topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks: %w", err)
	}

	seeds := make([]string, 0, len(top))
	for _, t := range top {
		if t.ID != "" {
			seeds = append(seeds, t.ID)
		}
	}

	recs, err := api.Recommendations(ctx, seeds, r.recLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return recs, nil
}

// CreatePlaylist validates req, creates a playlist owned by the current user and adds the surviving tracks.
//
// If none of the URIs survive validation no playlist is created.
func (r *Recommender) CreatePlaylist(ctx context.Context, api services.API, req models.PlaylistRequest) (*models.Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	found, err := r.Lookup(ctx, api, req.TrackURIs)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &shared.ValidationError{Field: "track_uris", Message: "None of the selected tracks could be found."}
	}

	user, err := api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	playlist, err := api.CreatePlaylist(ctx, user.ID, req.Name, req.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	uris := make([]string, len(found))
	for i, res := range found {
		uris[i] = res.CanonicalURI()
	}
	if err := api.AddItems(ctx, playlist.ID, uris); err != nil {
		return nil, fmt.Errorf("failed to add tracks to playlist %s: %w", playlist.ID, err)
	}

	r.logger.Info("created playlist", "playlist", playlist.ID, "tracks", len(uris), "dropped", len(req.TrackURIs)-len(uris))
	return playlist, nil
}
