// Package server provides HTTP routing, middleware and the serve loop for the web front end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [Logging] writes one structured access log line per request
//   - [Recover] turns handler panics into a 500 response
//
// The session middleware lives in the session package and has the same shape.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Serving
//
// [Serve] runs an [http.Server] until its context is cancelled, then shuts it down gracefully.
package server
