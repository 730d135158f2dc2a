// Package handlers implements the thin HTTP layer: route declarations,
// parameter extraction and the mapping of error kinds to status codes. All
// real work happens in the services package.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gomoviesfr/internal/constants"
	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/models"
	"github.com/amaumene/gomoviesfr/internal/services"
)

// Handler handles HTTP requests for the movie API.
type Handler struct {
	services *services.Container
}

// New creates a Handler backed by the provided services.
func New(services *services.Container) *Handler {
	return &Handler{services: services}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.handleHealth)

	api := r.Group("/api")
	api.GET("/movies", h.handleMovies)
	api.GET("/movies/:id", h.handleMovieDetail)
	api.POST("/views", h.handleMarkViewed)
	api.DELETE("/views/:tmdb_id", h.handleUnmarkViewed)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": constants.AppName,
		"version": constants.AppVersion,
	})
}

// respondError maps a typed error to its HTTP status. Anything that is not
// an AppError is reported as a generic internal error so internal fault
// details never reach clients.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		h.services.Logger.Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, models.Fail("INTERNAL", "Internal Server Error"))
		return
	}

	c.JSON(statusForKind(appErr.Kind), models.Fail(appErr.Kind, appErr.Message))
}

func statusForKind(kind string) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound, apperrors.KindNoPageFound:
		return http.StatusNotFound
	case apperrors.KindAlreadyExists:
		return http.StatusConflict
	case apperrors.KindUpstreamRejected:
		return http.StatusBadGateway
	case apperrors.KindUpstreamUnavailable:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
