// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Timeout for a single upstream TMDB call
	UpstreamTimeout = 10 * time.Second

	// Timeout for the entire inbound request
	RequestTimeout = 30 * time.Second

	// Timeout for a local store query
	StoreQueryTimeout = 5 * time.Second

	// Interval between expired cache entry sweeps
	CacheSweepInterval = 1 * time.Hour
)
