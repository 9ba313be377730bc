// Package web implements the recommender's HTTP handlers and server-rendered views.
//
// # States
//
// Each browser session is either anonymous (no token bundle) or authenticated.
// Handlers that need Spotify data are wrapped by the app's authenticated middleware, which asks the
// [services.Authenticator] for a valid bundle and redirects to /login on any failure.
//
// Routes
//
//	GET  /                 → home view
//	GET  /login            → redirect to the Spotify consent page
//	GET  /callback         → code exchange, then redirect to /profile
//	GET  /logout           → clear tokens, redirect to /
//	GET  /profile          → listening summary (auth)
//	GET  /recommendations  → recommended tracks (auth)
//	POST /create_playlist  → create a private playlist (auth)
//	GET  /playlist_success → confirmation view
//	GET  /healthz          → liveness probe
//
// Errors from API calls are answered with a JSON body of the form {"error": "..."}.
//
// Templates are embedded and parsed once by [New].
package web
