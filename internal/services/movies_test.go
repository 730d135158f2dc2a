package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/gateway"
	"github.com/amaumene/gomoviesfr/internal/models"
)

// fakeFetcher is hit by several goroutines at once during fan-out, so its
// state is guarded by a mutex.
type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	errs     map[string]error
	calls    int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		payloads: make(map[string][]byte),
		errs:     make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, desc gateway.Descriptor) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if err, ok := f.errs[desc.Path]; ok {
		return nil, err
	}
	if body, ok := f.payloads[desc.Path]; ok {
		return body, nil
	}
	return nil, apperrors.NewUpstreamRejected(404, "no canned payload for "+desc.Path)
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	reviews []models.ReviewRow
	err     error
}

func (s *fakeStore) ReviewsForMovie(context.Context, int) ([]models.ReviewRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.reviews == nil {
		return []models.ReviewRow{}, nil
	}
	return s.reviews, nil
}

func (s *fakeStore) MarkViewed(context.Context, int64, int64) (int64, error) { return 0, nil }
func (s *fakeStore) UnmarkViewed(context.Context, int64, int64) error        { return nil }
func (s *fakeStore) Close()                                                  {}

const detailPayload = `{
	"id": 42,
	"title": "Le Grand Film",
	"original_title": "The Big Movie",
	"status": "Released",
	"adult": false,
	"original_language": "en",
	"release_date": "2023-05-17",
	"runtime": 117,
	"budget": 90000000,
	"popularity": 123.4,
	"vote_average": 7.8,
	"origin_country": ["US"],
	"genres": [{"id": 28, "name": "Action"}, {"id": 12, "name": "Aventure"}],
	"tagline": "Une accroche",
	"overview": "Un synopsis.",
	"poster_path": "/poster42.jpg"
}`

const creditsPayload = `{
	"id": 42,
	"cast": [
		{"cast_id": 1, "name": "Actor One", "character": "Hero", "profile_path": "/p1.jpg"},
		{"cast_id": 2, "name": "Actor Two", "character": "Friend", "profile_path": null},
		{"cast_id": 3, "name": "Actor Three", "character": "Rival", "profile_path": "/p3.jpg"},
		{"cast_id": 4, "name": "Actor Four", "character": "Mentor", "profile_path": "/p4.jpg"},
		{"cast_id": 5, "name": "Actor Five", "character": "Villain", "profile_path": "/p5.jpg"},
		{"cast_id": 6, "name": "Actor Six", "character": "Extra", "profile_path": "/p6.jpg"},
		{"cast_id": 7, "name": "Actor Seven", "character": "Extra 2", "profile_path": "/p7.jpg"}
	],
	"crew": [
		{"id": 10, "name": "The Director", "job": "Director", "profile_path": "/d1.jpg"},
		{"id": 11, "name": "The Writer", "job": "Writer", "profile_path": "/w1.jpg"},
		{"id": 12, "name": "Second Director", "job": "Director", "profile_path": null},
		{"id": 13, "name": "The Producer", "job": "Producer", "profile_path": null}
	]
}`

func newDetailService(store *fakeStore) (*MovieService, *fakeFetcher) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/movie/42"] = []byte(detailPayload)
	fetcher.payloads["/movie/42/credits"] = []byte(creditsPayload)
	return NewMovieService(fetcher, store, zerolog.Nop()), fetcher
}

func TestGetMovieDetailRejectsInvalidID(t *testing.T) {
	svc, fetcher := newDetailService(&fakeStore{})

	for _, id := range []int{0, -1, 1_000_000_001} {
		_, err := svc.GetMovieDetail(context.Background(), id)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
	assert.Equal(t, 0, fetcher.Calls(), "validation failures must not reach the gateway")
}

func TestGetMovieDetailMerge(t *testing.T) {
	reviews := []models.ReviewRow{
		{ReviewID: 3, Content: "Excellent", UserEmail: "a@example.com", UserFirstname: "Alice", UserLastname: "Martin", ID: 7},
		{ReviewID: 5, Content: "Pas mal", UserEmail: "b@example.com", UserFirstname: "Bob", UserLastname: "Durand", ID: 7},
	}
	svc, fetcher := newDetailService(&fakeStore{reviews: reviews})

	detail, err := svc.GetMovieDetail(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.Calls(), "detail and credits are fetched exactly once each")

	assert.Equal(t, 42, detail.TMDBID)
	assert.Equal(t, "Le Grand Film", detail.TitleFR)
	assert.Equal(t, "The Big Movie", detail.OriginalTitle)
	assert.Equal(t, 7.8, detail.Rating)

	// Cast is trimmed to the first five entries in provider order
	require.Len(t, detail.Cast, 5)
	assert.Equal(t, 1, detail.Cast[0].ID)
	assert.Equal(t, 5, detail.Cast[4].ID)
	require.NotNil(t, detail.Cast[0].ProfilePath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w300_and_h300_bestv2/p1.jpg", *detail.Cast[0].ProfilePath)
	assert.Nil(t, detail.Cast[1].ProfilePath, "null profile stays null")

	// Crew keeps directors only
	require.Len(t, detail.Crew, 2)
	assert.Equal(t, "The Director", detail.Crew[0].Name)
	assert.Equal(t, "Second Director", detail.Crew[1].Name)
	for _, c := range detail.Crew {
		assert.Equal(t, "Director", c.Job)
	}

	require.NotNil(t, detail.PosterPath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w300_and_h450_bestv2/poster42.jpg", *detail.PosterPath)

	// Local media id surfaces because reviews exist
	require.NotNil(t, detail.ID)
	assert.Equal(t, int64(7), *detail.ID)
	assert.Equal(t, reviews, detail.Reviews)
}

func TestGetMovieDetailWithoutReviews(t *testing.T) {
	svc, _ := newDetailService(&fakeStore{})

	detail, err := svc.GetMovieDetail(context.Background(), 42)
	require.NoError(t, err)

	assert.Nil(t, detail.ID, "local id must be null without reviews")
	assert.NotNil(t, detail.Reviews)
	assert.Empty(t, detail.Reviews)
}

func TestGetMovieDetailNullPoster(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/movie/42"] = []byte(`{"id": 42, "title": "Sans Affiche", "poster_path": null}`)
	fetcher.payloads["/movie/42/credits"] = []byte(`{"id": 42, "cast": [], "crew": []}`)
	svc := NewMovieService(fetcher, &fakeStore{}, zerolog.Nop())

	detail, err := svc.GetMovieDetail(context.Background(), 42)
	require.NoError(t, err)

	assert.Nil(t, detail.PosterPath)
	assert.NotNil(t, detail.Cast)
	assert.Empty(t, detail.Cast)
	assert.NotNil(t, detail.Crew)
	assert.Empty(t, detail.Crew)
}

func TestGetMovieDetailIdempotent(t *testing.T) {
	svc, _ := newDetailService(&fakeStore{})

	first, err := svc.GetMovieDetail(context.Background(), 42)
	require.NoError(t, err)
	second, err := svc.GetMovieDetail(context.Background(), 42)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestGetMovieDetailFailsWhenDetailFails(t *testing.T) {
	svc, fetcher := newDetailService(&fakeStore{})
	fetcher.errs["/movie/42"] = apperrors.NewUpstreamRejected(404, "The resource you requested could not be found.")

	_, err := svc.GetMovieDetail(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamRejected, apperrors.KindOf(err))
}

func TestGetMovieDetailFailsWhenCreditsFail(t *testing.T) {
	// A credits failure fails the whole request rather than degrading to
	// empty cast and crew lists.
	svc, fetcher := newDetailService(&fakeStore{})
	fetcher.errs["/movie/42/credits"] = apperrors.NewUpstreamUnavailable("timeout", nil)

	_, err := svc.GetMovieDetail(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamUnavailable, apperrors.KindOf(err))
}

func TestGetMovieDetailFailsWhenStoreFails(t *testing.T) {
	svc, _ := newDetailService(&fakeStore{err: apperrors.NewLocalStoreError("connection refused", nil)})

	_, err := svc.GetMovieDetail(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLocalStore, apperrors.KindOf(err))
}

const genreCatalogPayload = `{"genres": [
	{"id": 28, "name": "Action"},
	{"id": 12, "name": "Aventure"},
	{"id": 35, "name": "Comédie"}
]}`

const discoverPayload = `{
	"page": 1,
	"results": [
		{"id": 100, "title": "Premier", "release_date": "2023-02-01", "poster_path": "/first.jpg",
		 "genre_ids": [28, 12], "vote_average": 6.5, "vote_count": 321},
		{"id": 101, "title": "Deuxième", "release_date": "2023-09-12", "poster_path": null,
		 "genre_ids": [35], "vote_average": 8.1, "vote_count": 54}
	],
	"total_pages": 10,
	"total_results": 200
}`

func listingParams() models.ListingParams {
	return models.ListingParams{Page: "1", Year: "2023", SortBy: "popularity.desc"}
}

func newListingService(discover string) (*MovieService, *fakeFetcher) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/discover/movie"] = []byte(discover)
	fetcher.payloads["/genre/movie/list"] = []byte(genreCatalogPayload)
	return NewMovieService(fetcher, &fakeStore{}, zerolog.Nop()), fetcher
}

func TestGetMoviesMerge(t *testing.T) {
	svc, _ := newListingService(discoverPayload)

	summaries, err := svc.GetMovies(context.Background(), listingParams())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, 100, first.TMDBID)
	assert.Equal(t, "Premier", first.TitleFR)
	require.NotNil(t, first.PosterPath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w300_and_h450_bestv2/first.jpg", *first.PosterPath)
	assert.Equal(t, []models.GenreRef{{ID: 28, Name: "Action"}, {ID: 12, Name: "Aventure"}}, first.Genres)
	assert.Equal(t, 6.5, first.VoteAverage)
	assert.Equal(t, 321, first.VoteCount)

	second := summaries[1]
	assert.Nil(t, second.PosterPath)
	assert.Equal(t, []models.GenreRef{{ID: 35, Name: "Comédie"}}, second.Genres)
}

func TestGetMoviesValidation(t *testing.T) {
	svc, fetcher := newListingService(discoverPayload)

	cases := []struct {
		name   string
		params models.ListingParams
	}{
		{"bad page", models.ListingParams{Page: "abc", Year: "2023", SortBy: "popularity.desc"}},
		{"zero page", models.ListingParams{Page: "0", Year: "2023", SortBy: "popularity.desc"}},
		{"missing year", models.ListingParams{Page: "1", SortBy: "popularity.desc"}},
		{"bad sort", models.ListingParams{Page: "1", Year: "2023", SortBy: "invalid_token"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetMovies(context.Background(), tc.params)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
	assert.Equal(t, 0, fetcher.Calls(), "validation failures must not reach the gateway")
}

func TestGetMoviesSortByErrorCitesAllowedSet(t *testing.T) {
	svc, _ := newListingService(discoverPayload)

	params := listingParams()
	params.SortBy = "invalid_token"

	_, err := svc.GetMovies(context.Background(), params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"invalid_token"`)
	assert.Contains(t, err.Error(), "popularity.asc")
	assert.Contains(t, err.Error(), "vote_count.desc")
}

func TestGetMoviesNoPageFound(t *testing.T) {
	// A structurally absent results collection is a failure...
	svc, _ := newListingService(`{"page": 99, "total_pages": 10}`)

	_, err := svc.GetMovies(context.Background(), listingParams())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNoPageFound, apperrors.KindOf(err))
}

func TestGetMoviesEmptyPage(t *testing.T) {
	// ...but a present, empty collection is a valid page with zero movies.
	svc, _ := newListingService(`{"page": 1, "results": [], "total_pages": 10}`)

	summaries, err := svc.GetMovies(context.Background(), listingParams())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestGetMoviesNullGenres(t *testing.T) {
	svc, _ := newListingService(`{"page": 1, "results": [
		{"id": 100, "title": "Sans Genres", "vote_average": 5.0, "vote_count": 3}
	]}`)

	summaries, err := svc.GetMovies(context.Background(), listingParams())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Genres)

	raw, err := json.Marshal(summaries[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"genres":null`)
}

func TestGetMoviesUnknownGenre(t *testing.T) {
	svc, _ := newListingService(`{"page": 1, "results": [
		{"id": 100, "title": "Genre Inconnu", "genre_ids": [9999]}
	]}`)

	_, err := svc.GetMovies(context.Background(), listingParams())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGenreResolution, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "9999")
}

func TestGetMoviesListingFailure(t *testing.T) {
	svc, fetcher := newListingService(discoverPayload)
	fetcher.errs["/discover/movie"] = apperrors.NewUpstreamUnavailable("timeout", nil)

	_, err := svc.GetMovies(context.Background(), listingParams())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamUnavailable, apperrors.KindOf(err))
}

func TestGetMoviesCatalogFailure(t *testing.T) {
	svc, fetcher := newListingService(discoverPayload)
	fetcher.errs["/genre/movie/list"] = apperrors.NewUpstreamRejected(500, "oops")

	_, err := svc.GetMovies(context.Background(), listingParams())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamRejected, apperrors.KindOf(err))
}
