package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gomoviesfr/internal/constants"
	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/models"
)

func (h *Handler) handleMovieDetail(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.NewValidationError("movie id must be an integer"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout)
	defer cancel()

	detail, err := h.services.Movies.GetMovieDetail(ctx, movieID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(detail))
}

func (h *Handler) handleMovies(c *gin.Context) {
	params := models.ListingParams{
		Page:   c.Query("page"),
		Year:   c.Query("year"),
		SortBy: c.Query("sort_by"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout)
	defer cancel()

	summaries, err := h.services.Movies.GetMovies(ctx, params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(summaries))
}
