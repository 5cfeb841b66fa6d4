// Package session carries the signed session token between client and
// server via a cookie. The cookie must be usable on cross-origin
// credentialed requests from the front-end, or the whole auth chain breaks.
package session

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// ErrNoSession is returned when the request carries no session cookie.
// Absence means the caller is anonymous.
var ErrNoSession = errors.New("no session cookie")

// Attach sets the session cookie on the response. Max-Age mirrors the token
// lifetime so browser and token expire together. In production the cookie is
// Secure with SameSite=None so the browser sends it on cross-origin requests
// from the deployed front-end.
func Attach(c *gin.Context, raw string, maxAge time.Duration) {
	secure := isProduction()
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(CookieName, raw, int(maxAge.Seconds()), "/", cookieDomain(), secure, true)
}

// Extract reads the raw session token from the request cookie.
func Extract(c *gin.Context) (string, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return raw, nil
}

// Clear removes the session cookie (logout).
func Clear(c *gin.Context) {
	secure := isProduction()
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(CookieName, "", -1, "/", cookieDomain(), secure, true)
}

func isProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}

func cookieDomain() string {
	return os.Getenv("COOKIE_DOMAIN")
}
