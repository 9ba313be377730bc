// Package services talks to Spotify: the accounts service for OAuth and the Web API for data.
//
// # OAuth Manager
//
// [OAuthManager] implements the authorization code flow with [golang.org/x/oauth2].
// It never holds tokens itself; every call receives the session's [session.TokenStore].
// [OAuthManager.ValidToken] refreshes an expired bundle exactly once per call and
// writes the result back to the store. A failed refresh leaves the stale bundle in place.
//
// # API Client
//
// [SpotifyClient] is a thin facade over the Web API, bound to one access token. It does
// not retry or cache. Failures surface as typed errors from the shared package:
//   - [shared.RemoteServiceError] : non-2xx or undecodable response
//   - [shared.NotFoundError] : track URI unknown to the catalog (404/400, or unparsable)
//   - [shared.ErrServiceUnavailable] : transport failure
package services
