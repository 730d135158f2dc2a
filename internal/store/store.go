// Package store provides access to locally owned rows (reviews, viewed
// markers) in PostgreSQL. Local records reference upstream movies through
// the provider id persisted as media.tmdb_id.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/models"
)

// Store is the relational store interface consumed by the aggregation layer.
type Store interface {
	// ReviewsForMovie returns every review of the movie identified by
	// tmdbID, joined with its author. The slice is empty, never nil,
	// when no reviews exist.
	ReviewsForMovie(ctx context.Context, tmdbID int) ([]models.ReviewRow, error)
	// MarkViewed records that userID has viewed the movie, creating the
	// media row on first contact. Returns the new view marker id.
	MarkViewed(ctx context.Context, userID, tmdbID int64) (int64, error)
	// UnmarkViewed removes userID's view marker for the movie.
	UnmarkViewed(ctx context.Context, userID, tmdbID int64) error
	// Close releases the underlying pool.
	Close()
}

const reviewsQuery = `
SELECT "review".id AS review_id, "review".content,
       "user".email AS user_email, "user".firstname AS user_firstname,
       "user".lastname AS user_lastname, "media".id
FROM media
JOIN "review" ON "media".id = "review".media_id
JOIN "user" ON "review".user_id = "user".id
WHERE "media".tmdb_id = $1`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres connects to databaseURL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string, logger zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// ReviewsForMovie runs the media/review/user join keyed by the provider id.
func (s *PostgresStore) ReviewsForMovie(ctx context.Context, tmdbID int) ([]models.ReviewRow, error) {
	rows, err := s.pool.Query(ctx, reviewsQuery, tmdbID)
	if err != nil {
		return nil, apperrors.NewLocalStoreError("failed to query reviews", err)
	}
	defer rows.Close()

	reviews := []models.ReviewRow{}
	for rows.Next() {
		var r models.ReviewRow
		if err := rows.Scan(&r.ReviewID, &r.Content, &r.UserEmail, &r.UserFirstname, &r.UserLastname, &r.ID); err != nil {
			return nil, apperrors.NewLocalStoreError("failed to scan review row", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLocalStoreError("failed to read review rows", err)
	}

	return reviews, nil
}

// MarkViewed creates the media row when absent, rejects a duplicate marker,
// and inserts the view row.
func (s *PostgresStore) MarkViewed(ctx context.Context, userID, tmdbID int64) (int64, error) {
	mediaID, err := s.findOrCreateMedia(ctx, tmdbID)
	if err != nil {
		return 0, err
	}

	var existing int64
	err = s.pool.QueryRow(ctx,
		`SELECT id FROM "view" WHERE media_id = $1 AND user_id = $2`, mediaID, userID).Scan(&existing)
	if err == nil {
		return 0, apperrors.NewAlreadyExists("media already marked as viewed by this user")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.NewLocalStoreError("failed to look up view marker", err)
	}

	var viewID int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO "view" (user_id, media_id) VALUES ($1, $2) RETURNING id`, userID, mediaID).Scan(&viewID)
	if err != nil {
		return 0, apperrors.NewLocalStoreError("failed to insert view marker", err)
	}
	return viewID, nil
}

// UnmarkViewed deletes the user's view marker for the movie.
func (s *PostgresStore) UnmarkViewed(ctx context.Context, userID, tmdbID int64) error {
	var mediaID int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM media WHERE tmdb_id = $1`, tmdbID).Scan(&mediaID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("media not found")
	}
	if err != nil {
		return apperrors.NewLocalStoreError("failed to look up media", err)
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM "view" WHERE user_id = $1 AND media_id = $2`, userID, mediaID)
	if err != nil {
		return apperrors.NewLocalStoreError("failed to delete view marker", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("media not marked as viewed by this user")
	}
	return nil
}

func (s *PostgresStore) findOrCreateMedia(ctx context.Context, tmdbID int64) (int64, error) {
	var mediaID int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM media WHERE tmdb_id = $1`, tmdbID).Scan(&mediaID)
	if err == nil {
		return mediaID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.NewLocalStoreError("failed to look up media", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO media (tmdb_id) VALUES ($1) RETURNING id`, tmdbID).Scan(&mediaID)
	if err != nil {
		return 0, apperrors.NewLocalStoreError("failed to create media", err)
	}
	return mediaID, nil
}
