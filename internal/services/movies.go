// Package services implements the aggregation layer: it fans out gateway and
// store calls for one client request and merges them into the externally
// shaped payload.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/amaumene/gomoviesfr/internal/constants"
	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/gateway"
	"github.com/amaumene/gomoviesfr/internal/models"
	"github.com/amaumene/gomoviesfr/internal/store"
)

// Fetcher is the cache gateway interface the service consumes.
type Fetcher interface {
	Fetch(ctx context.Context, desc gateway.Descriptor) ([]byte, error)
}

// MovieService aggregates provider metadata with locally owned rows.
type MovieService struct {
	gateway Fetcher
	store   store.Store
	logger  zerolog.Logger
}

// NewMovieService creates a MovieService.
func NewMovieService(gw Fetcher, st store.Store, logger zerolog.Logger) *MovieService {
	return &MovieService{
		gateway: gw,
		store:   st,
		logger:  logger.With().Str("component", "movies").Logger(),
	}
}

// GetMovieDetail merges the provider's movie detail and credits with the
// local reviews of the movie. All three lookups run concurrently; a failure
// of any branch fails the whole call, so no partial movie object is ever
// returned.
func (s *MovieService) GetMovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	if movieID < 1 || movieID > constants.MaxMovieID {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("movie id must be between 1 and %d, got %d", constants.MaxMovieID, movieID))
	}

	idPath := "/movie/" + strconv.Itoa(movieID)

	var (
		wg          sync.WaitGroup
		detailBody  []byte
		detailErr   error
		creditsBody []byte
		creditsErr  error
		reviews     []models.ReviewRow
		reviewsErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		detailBody, detailErr = s.gateway.Fetch(ctx, gateway.NewDescriptor(idPath, nil))
	}()
	go func() {
		defer wg.Done()
		creditsBody, creditsErr = s.gateway.Fetch(ctx, gateway.NewDescriptor(idPath+"/credits", nil))
	}()
	go func() {
		defer wg.Done()
		reviews, reviewsErr = s.store.ReviewsForMovie(ctx, movieID)
	}()
	wg.Wait()

	if detailErr != nil {
		return nil, detailErr
	}
	if creditsErr != nil {
		return nil, creditsErr
	}
	if reviewsErr != nil {
		return nil, reviewsErr
	}

	var detail models.TMDBMovieDetails
	if err := json.Unmarshal(detailBody, &detail); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to decode movie detail payload", err)
	}
	var credits models.TMDBCredits
	if err := json.Unmarshal(creditsBody, &credits); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to decode credits payload", err)
	}

	return mergeMovieDetail(&detail, &credits, reviews), nil
}

// GetMovies fetches one filtered discovery page plus the genre catalog and
// shapes every entry, resolving genre ids against the catalog.
func (s *MovieService) GetMovies(ctx context.Context, params models.ListingParams) ([]models.MovieSummary, error) {
	if err := validateListingParams(params); err != nil {
		return nil, err
	}

	discoverQuery := url.Values{}
	discoverQuery.Set("page", params.Page)
	discoverQuery.Set("year", params.Year)
	discoverQuery.Set("sort_by", params.SortBy)

	var (
		wg          sync.WaitGroup
		listingBody []byte
		listingErr  error
		catalogBody []byte
		catalogErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		listingBody, listingErr = s.gateway.Fetch(ctx, gateway.NewDescriptor("/discover/movie", discoverQuery))
	}()
	go func() {
		defer wg.Done()
		catalogBody, catalogErr = s.gateway.Fetch(ctx, gateway.NewDescriptor("/genre/movie/list", nil))
	}()
	wg.Wait()

	if listingErr != nil {
		return nil, listingErr
	}
	if catalogErr != nil {
		return nil, catalogErr
	}

	var listing models.TMDBDiscoverResponse
	if err := json.Unmarshal(listingBody, &listing); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to decode listing payload", err)
	}
	// A page past the end comes back without any results collection; that is
	// different from a valid page with zero movies.
	if listing.Results == nil {
		return nil, apperrors.NewNoPageFound()
	}

	var catalog models.TMDBGenreList
	if err := json.Unmarshal(catalogBody, &catalog); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to decode genre catalog payload", err)
	}
	genreNames := make(map[int]string, len(catalog.Genres))
	for _, g := range catalog.Genres {
		genreNames[g.ID] = g.Name
	}

	summaries := make([]models.MovieSummary, 0, len(*listing.Results))
	for _, entry := range *listing.Results {
		summary, err := shapeListingEntry(entry, genreNames)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func validateListingParams(params models.ListingParams) error {
	page, err := strconv.Atoi(params.Page)
	if err != nil || page < 1 {
		return apperrors.NewValidationError(
			fmt.Sprintf("page must be a positive integer, got %q", params.Page))
	}
	if params.Year == "" {
		return apperrors.NewValidationError("year is required")
	}
	for _, token := range constants.DiscoverSortTokens {
		if params.SortBy == token {
			return nil
		}
	}
	return apperrors.NewValidationError(fmt.Sprintf("sort_by must be one of %s, got %q",
		strings.Join(constants.DiscoverSortTokens, ", "), params.SortBy))
}

func mergeMovieDetail(detail *models.TMDBMovieDetails, credits *models.TMDBCredits, reviews []models.ReviewRow) *models.MovieDetail {
	cast := make([]models.CastEntry, 0, constants.MaxCastEntries)
	for _, member := range credits.Cast {
		if len(cast) == constants.MaxCastEntries {
			break
		}
		cast = append(cast, models.CastEntry{
			ID:          member.CastID,
			Name:        member.Name,
			Character:   member.Character,
			ProfilePath: imageURL(constants.ProfileImageBaseURL, member.ProfilePath),
		})
	}

	crew := make([]models.CrewEntry, 0)
	for _, member := range credits.Crew {
		if member.Job != constants.DirectorJob {
			continue
		}
		crew = append(crew, models.CrewEntry{
			ID:          member.ID,
			Name:        member.Name,
			Job:         member.Job,
			ProfilePath: imageURL(constants.ProfileImageBaseURL, member.ProfilePath),
		})
	}

	genres := make([]models.GenreRef, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genres = append(genres, models.GenreRef{ID: g.ID, Name: g.Name})
	}

	// The local media id is only surfaced when at least one review exists;
	// every review row of a movie carries the same media id.
	var localID *int64
	if len(reviews) > 0 {
		localID = &reviews[0].ID
	}

	return &models.MovieDetail{
		TMDBID:           detail.ID,
		ID:               localID,
		TitleFR:          detail.Title,
		Status:           detail.Status,
		OriginalTitle:    detail.OriginalTitle,
		Adult:            detail.Adult,
		OriginalLanguage: detail.OriginalLanguage,
		ReleaseDate:      detail.ReleaseDate,
		Runtime:          detail.Runtime,
		Budget:           detail.Budget,
		Popularity:       detail.Popularity,
		Rating:           detail.VoteAverage,
		Country:          detail.OriginCountry,
		Genres:           genres,
		Tagline:          detail.Tagline,
		Overview:         detail.Overview,
		PosterPath:       imageURL(constants.PosterImageBaseURL, detail.PosterPath),
		Cast:             cast,
		Crew:             crew,
		Reviews:          reviews,
	}
}

func shapeListingEntry(entry models.TMDBListMovie, genreNames map[int]string) (models.MovieSummary, error) {
	var genres []models.GenreRef
	if entry.GenreIDs != nil {
		genres = make([]models.GenreRef, 0, len(entry.GenreIDs))
		for _, id := range entry.GenreIDs {
			name, ok := genreNames[id]
			if !ok {
				return models.MovieSummary{}, apperrors.NewGenreResolutionError(id)
			}
			genres = append(genres, models.GenreRef{ID: id, Name: name})
		}
	}

	return models.MovieSummary{
		TMDBID:      entry.ID,
		TitleFR:     entry.Title,
		ReleaseDate: entry.ReleaseDate,
		PosterPath:  imageURL(constants.PosterImageBaseURL, entry.PosterPath),
		Genres:      genres,
		VoteAverage: entry.VoteAverage,
		VoteCount:   entry.VoteCount,
	}, nil
}

// imageURL resolves a provider-relative image path to an absolute URL,
// keeping a provider null as an explicit null.
func imageURL(base string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	resolved := base + *path
	return &resolved
}
