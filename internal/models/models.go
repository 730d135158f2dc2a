package models

// GenreRef is a resolved {id, name} pair surfaced to clients.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastEntry is one of the top cast credits of a detail response.
type CastEntry struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// CrewEntry is a director credit of a detail response.
type CrewEntry struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	ProfilePath *string `json:"profile_path"`
}

// ReviewRow is one locally stored review joined with its author. The trailing
// ID column is the local media row id shared by every review of the movie.
type ReviewRow struct {
	ReviewID      int64  `json:"review_id"`
	Content       string `json:"content"`
	UserEmail     string `json:"user_email"`
	UserFirstname string `json:"user_firstname"`
	UserLastname  string `json:"user_lastname"`
	ID            int64  `json:"id"`
}

// MovieDetail is the merged detail payload. The key set is fixed: fields the
// provider left null are explicit nulls, and Cast, Crew and Reviews are always
// arrays, possibly empty.
type MovieDetail struct {
	TMDBID           int         `json:"tmdb_id"`
	ID               *int64      `json:"id"`
	TitleFR          string      `json:"title_fr"`
	Status           string      `json:"status"`
	OriginalTitle    string      `json:"original_title"`
	Adult            bool        `json:"adult"`
	OriginalLanguage string      `json:"original_language"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	Budget           int64       `json:"budget"`
	Popularity       float64     `json:"popularity"`
	Rating           float64     `json:"rating"`
	Country          []string    `json:"country"`
	Genres           []GenreRef  `json:"genres"`
	Tagline          string      `json:"tagline"`
	Overview         string      `json:"overview"`
	PosterPath       *string     `json:"poster_path"`
	Cast             []CastEntry `json:"cast"`
	Crew             []CrewEntry `json:"crew"`
	Reviews          []ReviewRow `json:"reviews"`
}

// MovieSummary is one shaped entry of a listing response. Genres is null when
// the provider supplied no genre ids for the entry.
type MovieSummary struct {
	TMDBID      int        `json:"tmdb_id"`
	TitleFR     string     `json:"title_fr"`
	ReleaseDate string     `json:"release_date"`
	PosterPath  *string    `json:"poster_path"`
	Genres      []GenreRef `json:"genres"`
	VoteAverage float64    `json:"vote_average"`
	VoteCount   int        `json:"vote_count"`
}

// ListingParams are the validated query parameters of a listing request.
type ListingParams struct {
	Page   string `form:"page"`
	Year   string `form:"year"`
	SortBy string `form:"sort_by"`
}
