// Package server provides HTTP routing, middleware, and the handlers of the medspa web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and registers "METHOD path" patterns,
// so the mux itself answers 405 for other methods and exposes path wildcards.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The image proxy and the web pages are registered this way.
//
// # Auth
//
// [OAuthHandler] serves /login, /auth/callback and /logout. The callback delegates to the state machine in
// internal/auth and, on success, persists a session through [Sessions], which sets a signed cookie naming
// the session row. [Sessions.Middleware] loads that session into the request context for every route;
// [RequireSession] guards the favorites API.
//
// # Observability
//
// [RequestLogger] logs each request. [Metrics] keeps Prometheus collectors on a registry owned by the
// server and exposes them on /metrics.
package server
