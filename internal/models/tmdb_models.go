// Package models defines data structures for TMDB API responses and the
// externally shaped payloads built from them.
package models

// TMDBGenre is a single {id, name} pair from the provider.
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBGenreList is the /genre/movie/list response.
type TMDBGenreList struct {
	Genres []TMDBGenre `json:"genres"`
}

// TMDBMovieDetails is the /movie/{id} response. Image paths are pointers so a
// provider null stays distinguishable from an empty string.
type TMDBMovieDetails struct {
	ID               int         `json:"id"`
	Title            string      `json:"title"`
	OriginalTitle    string      `json:"original_title"`
	Status           string      `json:"status"`
	Adult            bool        `json:"adult"`
	OriginalLanguage string      `json:"original_language"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	Budget           int64       `json:"budget"`
	Popularity       float64     `json:"popularity"`
	VoteAverage      float64     `json:"vote_average"`
	OriginCountry    []string    `json:"origin_country"`
	Genres           []TMDBGenre `json:"genres"`
	Tagline          string      `json:"tagline"`
	Overview         string      `json:"overview"`
	PosterPath       *string     `json:"poster_path"`
}

// TMDBCastMember is one cast credit from /movie/{id}/credits.
type TMDBCastMember struct {
	CastID      int     `json:"cast_id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// TMDBCrewMember is one crew credit from /movie/{id}/credits.
type TMDBCrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	ProfilePath *string `json:"profile_path"`
}

// TMDBCredits is the /movie/{id}/credits response.
type TMDBCredits struct {
	ID   int              `json:"id"`
	Cast []TMDBCastMember `json:"cast"`
	Crew []TMDBCrewMember `json:"crew"`
}

// TMDBListMovie is one entry of a /discover/movie page.
type TMDBListMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// TMDBDiscoverResponse is the /discover/movie response. Results is a pointer
// so a structurally absent page (no results key) is distinguishable from a
// valid page with zero movies.
type TMDBDiscoverResponse struct {
	Page         int              `json:"page"`
	Results      *[]TMDBListMovie `json:"results"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
}

// TMDBErrorBody is the provider's non-2xx error payload.
type TMDBErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
