// Package types defines the Store interface, the watchlist entity types,
// and the standard errors shared by every backend.
package types
