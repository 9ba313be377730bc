// Package tasks computes the views of the recommender from Spotify Web API calls.
//
// # Core Operations
//
// The [Recommender] composes calls on a [services.API]:
//
//  1. [Recommender.ProfileSummary] : profile, playlist count, top tracks and artists, top genres
//  2. [Recommender.Recommendations] : top tracks used as seeds for track recommendations
//  3. [Recommender.CreatePlaylist] : validate the selected URIs, then create a private playlist
//
// # URI Validation
//
// Each submitted URI is looked up in order and classified as a [LookupResult].
// Unknown tracks are dropped with a warning; any other failure aborts the whole
// operation. Lookups can be paced with a [rate.Limiter].
//
// # Genres
//
// [TopGenres] keeps the first three genres of the artists' concatenated genre lists,
// removes duplicates and title-cases them, so it may return fewer than three.
package tasks
