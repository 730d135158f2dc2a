// Package constants defines application-wide constants and default values.
package constants

const (
	AppName    = "gomoviesfr"
	AppVersion = "1.0.0"

	// Rate limiting
	TMDBRateLimit   = 5  // upstream requests per second
	TMDBRateBurst   = 20 // burst capacity
	ClientRateLimit = 2  // inbound requests per second per client
	ClientRateBurst = 20 // burst capacity per client
)

// TMDB API endpoints and response shaping
const (
	TMDBAPIBaseURL = "https://api.themoviedb.org/3"

	// All catalog requests are pinned to a single locale so cache keys
	// stay consistent across callers.
	TMDBLanguage = "fr-FR"

	PosterImageBaseURL  = "https://image.tmdb.org/t/p/w300_and_h450_bestv2"
	ProfileImageBaseURL = "https://image.tmdb.org/t/p/w300_and_h300_bestv2"
)

// Aggregation limits
const (
	// Movie ids above this are rejected before any upstream call
	MaxMovieID = 1_000_000_000

	// Number of cast entries kept in a detail response
	MaxCastEntries = 5

	// Crew job retained by the detail response
	DirectorJob = "Director"
)

// DiscoverSortTokens lists the sort_by values accepted by the listing endpoint.
var DiscoverSortTokens = []string{
	"popularity.asc",
	"popularity.desc",
	"release_date.asc",
	"release_date.desc",
	"revenue.asc",
	"revenue.desc",
	"primary_release_date.asc",
	"primary_release_date.desc",
	"title.asc",
	"title.desc",
	"vote_average.asc",
	"vote_average.desc",
	"vote_count.asc",
	"vote_count.desc",
}
