// Package services wraps the external HTTP APIs the med spa directory depends on.
//
// # Listing Service
//
// [ListingService] is the data-fetch abstraction used by the web pages, the JSON API, the CLI and the TUI.
// [BackendService] implements it against the hosted database's REST interface (PostgREST dialect):
//
//   - GetListing : GET /rest/v1/{table}?select=*&id=eq.{id}
//   - SearchListings : GET /rest/v1/{table}?or=(name.ilike."*q*",...)&order=rating.desc.nullslast
//   - CountListings : same filters with "Prefer: count=exact"; total read from Content-Range
//
// Requests carry the anon key as both the apikey header and a bearer token.
//
// # Places Photos
//
// [PlacesService] fetches photo bytes from the places-photo provider for the image proxy.
// The body is returned unread so the proxy can stream it.
//
// # Raw Requests
//
// [APIService] performs the underlying HTTP calls and returns an [APIResponse] with status, headers and body.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : backend URL/key or places key not configured
//   - [shared.ErrAPIRequest] : transport failure or non-2xx backend response
//   - [shared.ErrListingNotFound] : no row for the requested ID
//   - [shared.ErrUpstreamFetch] : places provider failed or answered non-2xx
package services
