package bookings

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestay/internal/guard"
)

// Handler handles booking HTTP requests.
type Handler struct {
	repo Repository
}

// NewHandler creates a new bookings handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateBooking handles POST /bookings. The requester is always the
// verified caller. There is deliberately no check against the place's
// owner: booking one's own listing is permitted.
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token must be provided"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := &Booking{
		PlaceID:        req.Place,
		UserID:         userID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		NumberOfGuests: req.NumberOfGuests,
		Name:           req.Name,
		Phone:          req.Phone,
		Price:          req.Price,
	}

	if err := h.repo.Create(c.Request.Context(), booking); err != nil {
		slog.Error("Failed to create booking", "user_id", userID, "place_id", req.Place, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating booking"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// MyBookings handles GET /bookings, scoped to the caller as requester.
func (h *Handler) MyBookings(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token must be provided"})
		return
	}

	bookings, err := h.repo.ListByRequester(c.Request.Context(), guard.OwnedBy(userID))
	if err != nil {
		slog.Error("Failed to list bookings", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
