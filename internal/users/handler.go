package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"homestay/internal/guard"
	"homestay/internal/session"
	"homestay/internal/token"
)

// Handler handles authentication and profile HTTP requests.
type Handler struct {
	service *Service
	codec   *token.Codec
}

// NewHandler creates a new users handler.
func NewHandler(service *Service, codec *token.Codec) *Handler {
	return &Handler{service: service, codec: codec}
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "This email is already registered",
			})
			return
		}
		slog.Error("Failed to register user", "email", req.Email, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login handles POST /login. On success it issues a session token and
// attaches it as a cookie. An unknown email answers with the plain
// "not found" sentinel; a wrong password answers 422. Both responses stay
// behavior-compatible with the front-end.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusOK, "not found")
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnprocessableEntity, "password not matched")
		default:
			slog.Error("Login failed", "email", req.Email, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	raw, err := h.codec.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("Failed to issue session token", "user_id", user.ID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	session.Attach(c, raw, h.codec.TTL())
	c.JSON(http.StatusOK, user)
}

// Profile handles GET /profile. Anonymous and invalid-token callers get a
// null body rather than an error; the route is identity-optional.
func (h *Handler) Profile(c *gin.Context) {
	userID, _, ok := guard.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		slog.Error("Failed to load profile", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Logout handles POST /logout.
func (h *Handler) Logout(c *gin.Context) {
	session.Clear(c)
	c.JSON(http.StatusOK, true)
}
