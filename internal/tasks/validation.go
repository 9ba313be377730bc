package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
)

// LookupStatus classifies a single track lookup.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LookupResult is the outcome of looking up one submitted URI.
type LookupResult struct {
	URI    string        // URI as submitted
	Status LookupStatus  // Classification
	Track  *models.Track // Set when Status is LookupFound
	Err    error         // Set unless Status is LookupFound
}

// CanonicalURI returns the spotify:track URI of a found track, falling back to the submitted URI.
func (r LookupResult) CanonicalURI() string {
	if r.Track != nil && r.Track.URI != "" {
		return r.Track.URI
	}
	if id, ok := models.ParseTrackID(r.URI); ok {
		return models.TrackURI(id)
	}
	return r.URI
}

func lookup(ctx context.Context, api services.API, uri string) LookupResult {
	track, err := api.Track(ctx, uri)
	switch {
	case err == nil:
		return LookupResult{URI: uri, Status: LookupFound, Track: track}
	case shared.IsNotFound(err):
		return LookupResult{URI: uri, Status: LookupNotFound, Err: err}
	default:
		return LookupResult{URI: uri, Status: LookupFailed, Err: err}
	}
}

// Lookup resolves uris one at a time, in order, and returns the found ones.
//
// Unknown tracks are dropped with a warning. Any other failure stops the lookup and is returned.
func (r *Recommender) Lookup(ctx context.Context, api services.API, uris []string) ([]LookupResult, error) {
	found := make([]LookupResult, 0, len(uris))

	for _, uri := range uris {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		res := lookup(ctx, api, uri)
		switch res.Status {
		case LookupFound:
			found = append(found, res)
		case LookupNotFound:
			r.logger.Warn("dropping unknown track", "uri", uri)
		default:
			return nil, fmt.Errorf("failed to look up %s: %w", uri, res.Err)
		}
	}
	return found, nil
}

// ValidateURIs returns the submitted URIs that resolve to a track, in their original order.
func (r *Recommender) ValidateURIs(ctx context.Context, api services.API, uris []string) ([]string, error) {
	found, err := r.Lookup(ctx, api, uris)
	if err != nil {
		return nil, err
	}

	valid := make([]string, len(found))
	for i, res := range found {
		valid[i] = res.URI
	}
	return valid, nil
}
