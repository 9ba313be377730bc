package tasks

import (
	"unicode"

	"github.com/desertthunder/spotrec/internal/models"
)

const maxGenres = 3

// TopGenres returns the distinct, title-cased genres among the first three of the artists' concatenated genre lists.
func TopGenres(artists []models.Artist) []string {
	var all []string
	for _, a := range artists {
		all = append(all, a.Genres...)
		if len(all) >= maxGenres {
			break
		}
	}
	if len(all) > maxGenres {
		all = all[:maxGenres]
	}

	seen := make(map[string]bool, len(all))
	genres := make([]string, 0, len(all))
	for _, g := range all {
		if seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, titleCase(g))
	}
	return genres
}

// titleCase upper-cases the first letter of every run of letters and lower-cases the rest.
func titleCase(s string) string {
	out := []rune(s)
	prevLetter := false
	for i, r := range out {
		if prevLetter {
			out[i] = unicode.ToLower(r)
		} else {
			out[i] = unicode.ToTitle(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return string(out)
}
