// Package models defines the data carried between the session layer, the Spotify facade and the web handlers.
//
// Nothing here is persisted beyond the lifetime of a user's session:
//   - [TokenBundle] : OAuth access/refresh token pair with expiry and granted scopes
//   - [PlaylistRequest] : transient form input for playlist creation
//   - [ProfileSummary] : view model for the profile page
//
// Track URIs are opaque strings; [ParseTrackID] extracts the catalog id from the forms Spotify hands out.
package models
