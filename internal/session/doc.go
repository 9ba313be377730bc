// Package session holds each visitor's Spotify token bundle between requests.
//
// # Keyed Store
//
// A [Store] maps an opaque session id to a [models.TokenBundle]. Three backends exist:
//   - [MemoryStore] : process local map, the default
//   - [SQLiteStore] : sessions table created by the shared migrations
//   - [RedisStore] : JSON values with a TTL
//
// # Token Store
//
// Handlers never see session ids. [Manager.Middleware] resolves the id from a signed cookie, minting a new one for
// anonymous visitors, and binds a [TokenStore] to the request context. [FromContext] returns it.
//
// The cookie value is an HS256 JWT carrying the id in its "sid" claim, signed with the configured secret key.
// A cookie that fails verification is replaced with a fresh anonymous session.
package session
