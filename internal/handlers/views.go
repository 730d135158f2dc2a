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

type markViewedRequest struct {
	TMDBID int64 `json:"tmdb_id"`
}

// userID reads the authenticated user id injected by the auth layer.
func userID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("missing or invalid user id")
	}
	return id, nil
}

func (h *Handler) handleMarkViewed(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req markViewedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TMDBID < 1 {
		h.respondError(c, apperrors.NewValidationError("tmdb_id must be a positive integer"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.StoreQueryTimeout)
	defer cancel()

	viewID, err := h.services.Store.MarkViewed(ctx, uid, req.TMDBID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(gin.H{"user_media_view_id": viewID}))
}

func (h *Handler) handleUnmarkViewed(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil || tmdbID < 1 {
		h.respondError(c, apperrors.NewValidationError("tmdb_id must be a positive integer"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.StoreQueryTimeout)
	defer cancel()

	if err := h.services.Store.UnmarkViewed(ctx, uid, tmdbID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Success(true))
}
