package middleware

import (
	"net/http" // HTTP status codes

	"expense_portal/internal/store"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// AdminOnlyMiddleware checks on each request that the session's admin account still exists
func AdminOnlyMiddleware(st *store.Store, sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := AdminUsername(c)
		if username == "" {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		exists, err := st.AdminExists(c.Request.Context(), username)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": username,
				"error":    err.Error(),
			}).Error("Admin lookup failed")
			_ = c.Error(err) // Rendered as the error page further up the chain
			c.Abort()
			return
		}
		if !exists {
			// Account gone, drop the session
			sessions.End(c)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
