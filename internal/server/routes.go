package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"homestay/internal/config"
	"homestay/internal/guard"
)

// RegisterRoutes configures the router. Browsing listings is public;
// everything that mutates or is identity-scoped sits behind the guard.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	// The session cookie only works cross-origin when the browser is
	// allowed to send credentials from the front-end origin.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnvOrDefault("FRONTEND_ORIGIN", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	// Accounts and sessions
	r.POST("/register", s.users.Register)
	r.POST("/login", s.users.Login)
	r.POST("/logout", s.users.Logout)
	r.GET("/profile", guard.OptionalAuth(s.codec), s.users.Profile)

	// Public browsing
	r.GET("/place", s.places.Browse)
	r.GET("/places/:id", s.places.GetPlace)
	r.GET("/uploads/:name", s.uploads.ServePhoto)

	// Identity-scoped operations
	authed := r.Group("/")
	authed.Use(guard.RequireAuth(s.codec))
	{
		authed.POST("/places", s.places.CreatePlace)
		authed.GET("/user-places", s.places.UserPlaces)
		authed.PUT("/places", s.places.UpdatePlace)

		authed.POST("/bookings", s.bookings.CreateBooking)
		authed.GET("/bookings", s.bookings.MyBookings)

		authed.POST("/upload", s.uploads.Upload)
		authed.POST("/upload-by-link", s.uploads.UploadByLink)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	response := make(map[string]interface{})

	response["database"] = s.db.Health(c.Request.Context())
	response["cache"] = s.places.CacheStatus(c)

	if s.storage != nil {
		storageHealth := make(map[string]string)
		if err := s.storage.Health(c.Request.Context()); err != nil {
			storageHealth["status"] = "down"
			storageHealth["error"] = err.Error()
		} else {
			storageHealth["status"] = "up"
		}
		response["storage"] = storageHealth
	}

	c.JSON(http.StatusOK, response)
}
