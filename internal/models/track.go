package models

import (
	"net/url"
	"strings"
)

const trackIDLength = 22

// ParseTrackID extracts the catalog id from a track reference.
//
// Accepted forms are "spotify:track:<id>", "https://open.spotify.com/track/<id>" (query ignored) and a bare id.
// ok is false for anything else, including references to other item types.
func ParseTrackID(ref string) (id string, ok bool) {
	ref = strings.TrimSpace(ref)

	switch {
	case strings.HasPrefix(ref, "spotify:"):
		parts := strings.Split(ref, ":")
		if len(parts) != 3 || parts[1] != "track" {
			return "", false
		}
		id = parts[2]
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		u, err := url.Parse(ref)
		if err != nil {
			return "", false
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) < 2 || segments[len(segments)-2] != "track" {
			return "", false
		}
		id = segments[len(segments)-1]
	default:
		id = ref
	}

	if !isBase62(id) || len(id) != trackIDLength {
		return "", false
	}
	return id, true
}

// TrackURI returns the canonical URI for a catalog id.
func TrackURI(id string) string {
	return "spotify:track:" + id
}

func isBase62(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
