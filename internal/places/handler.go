package places

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestay/internal/guard"
)

// Handler handles listing HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new places handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CacheStatus exposes the listing cache state to the health endpoint.
func (h *Handler) CacheStatus(c *gin.Context) map[string]string {
	return h.service.CacheStatus(c.Request.Context())
}

// CreatePlace handles POST /places.
func (h *Handler) CreatePlace(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token must be provided"})
		return
	}

	var fields PlaceFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	place, err := h.service.Create(c.Request.Context(), userID, fields)
	if err != nil {
		slog.Error("Failed to create place", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create place"})
		return
	}

	c.JSON(http.StatusOK, place)
}

// GetPlace handles GET /places/:id. Public.
func (h *Handler) GetPlace(c *gin.Context) {
	place, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		slog.Error("Failed to get place", "place_id", c.Param("id"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get place"})
		return
	}

	c.JSON(http.StatusOK, place)
}

// Browse handles GET /place. Public.
func (h *Handler) Browse(c *gin.Context) {
	places, err := h.service.Browse(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list places", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list places"})
		return
	}

	c.JSON(http.StatusOK, places)
}

// UserPlaces handles GET /user-places, scoped to the caller.
func (h *Handler) UserPlaces(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token must be provided"})
		return
	}

	places, err := h.service.ListOwned(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list user places", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list places"})
		return
	}

	c.JSON(http.StatusOK, places)
}

// UpdatePlace handles PUT /places. An ownership mismatch answers an
// explicit 403; an unknown id answers 404.
func (h *Handler) UpdatePlace(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token must be provided"})
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this place"})
		case errors.Is(err, ErrPlaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		default:
			slog.Error("Failed to update place", "place_id", req.ID, "user_id", userID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update place"})
		}
		return
	}

	c.JSON(http.StatusOK, "ok")
}
