package middleware

import (
	"net/http" // HTTP status codes
	"net/url"
	"time"

	"expense_portal/internal/utils" // Session token helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

const (
	// SessionCookieName is the cookie carrying the admin session token.
	SessionCookieName = "gp_session"
	// LoginPath is where anonymous requests to admin pages are sent.
	LoginPath = "/admin/login"

	usernameKey = "adminUsername"
	claimsKey   = "sessionClaims"
)

// Sessions issues, reads and clears admin sessions. A session is either
// absent (anonymous) or a valid, unrevoked token (authenticated admin).
type Sessions struct {
	Secret string        // Signing secret
	TTL    time.Duration // Lifetime of a freshly issued session
	Secure bool          // Send the cookie over HTTPS only
	Redis  *redis.Client // Revocation store, nil disables revocation
	Now    func() time.Time
}

func (s *Sessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue starts a new session for username and sets the cookie.
func (s *Sessions) Issue(c *gin.Context, username string) (*utils.SessionClaims, error) {
	token, claims, err := utils.GenerateSessionToken(username, s.Secret, s.now(), s.TTL)
	if err != nil {
		return nil, err
	}
	s.setCookie(c, token, int(s.TTL.Seconds()))
	return claims, nil
}

// Current returns the claims of a valid session, or nil when anonymous.
func (s *Sessions) Current(c *gin.Context) *utils.SessionClaims {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := utils.ParseSessionToken(token, s.Secret)
	if err != nil {
		return nil
	}
	revoked, err := utils.IsSessionRevoked(c.Request.Context(), s.Redis, claims.ID)
	if err != nil {
		logrus.WithError(err).Warn("Session revocation check failed")
	}
	if revoked {
		return nil
	}
	return claims
}

// End revokes the current session, if any, and clears the cookie.
func (s *Sessions) End(c *gin.Context) {
	if claims := s.Current(c); claims != nil && claims.ExpiresAt != nil {
		if err := utils.RevokeSession(c.Request.Context(), s.Redis, claims.ID, claims.ExpiresAt.Time); err != nil {
			logrus.WithError(err).Warn("Failed to revoke session")
		}
	}
	s.setCookie(c, "", -1)
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", s.Secure, true)
}

// SessionAuthMiddleware requires an authenticated admin session. Anonymous
// requests are redirected to the login form with the original path kept in
// "next". Sessions past half of their lifetime are rotated.
func SessionAuthMiddleware(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := s.Current(c)
		if claims == nil {
			target := LoginPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		if claims.NeedsRenewal(s.now()) {
			renewed, err := s.Issue(c, claims.Username)
			if err != nil {
				logrus.WithError(err).Warn("Failed to renew session")
			} else {
				if err := utils.RevokeSession(c.Request.Context(), s.Redis, claims.ID, claims.ExpiresAt.Time); err != nil {
					logrus.WithError(err).Warn("Failed to revoke rotated session")
				}
				claims = renewed
			}
		}
		c.Set(usernameKey, claims.Username) // Store username in context
		c.Set(claimsKey, claims)
		c.Next() // Proceed to the next handler
	}
}

// AdminUsername returns the authenticated admin set by SessionAuthMiddleware.
func AdminUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
