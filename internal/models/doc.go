// Package models defines the domain entities shared by the medspa service, CLI and TUI.
//
// The package contains two categories of types:
//
// 1. Records owned by the hosted backend, fetched on demand and never written back:
//   - [Listing] : a medical spa with descriptive, contact and rating fields
//   - [ListingQuery] : filters for search and count requests
//
// 2. Records owned by this application:
//   - [Favorite] : a denormalized snapshot of a [Listing], persisted as a set keyed by ID
//   - [Session] : an opaque token pair issued by the auth provider after the code exchange
package models
