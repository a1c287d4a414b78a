// Package web renders the server-side pages of the medspa site.
//
// Every page shares one layout of three regions: a navbar, a collapsible sidebar, and the page content.
// Whether the sidebar is open is read once per request from the "sidebar" cookie and handed to both the
// navbar (which draws the toggle) and the sidebar (which renders or hides itself). POST /ui/sidebar flips
// the cookie.
//
// Routes
//
//	GET  /                       top rated listings and the total count
//	GET  /search?q=&city=        search results, empty state on backend errors
//	GET  /spas/{id}              listing detail with treatments and a proxied photo
//	POST /spas/{id}/favorite     toggles the listing in the signed-in user's favorites
//	GET  /my-page                the signed-in user's favorites
//	GET  /auth/auth-code-error   sign-in failure details
//	POST /ui/sidebar             flips the sidebar cookie
//
// The session is read from the request context populated by the server's session middleware.
package web
