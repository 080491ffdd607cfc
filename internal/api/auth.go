package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"expense_portal/internal/domain"     // Domain errors
	"expense_portal/internal/middleware" // Session handling
	"expense_portal/internal/store"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const (
	dashboardPath = "/admin"
	logoutPath    = "/admin/logout"
)

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// safeNext returns next when it is a local path, otherwise the dashboard.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return dashboardPath
	}
	if next == logoutPath || strings.HasPrefix(next, logoutPath+"?") {
		return dashboardPath
	}
	return next
}

// LoginPageHandler shows the login form, or skips it for a signed-in admin.
func LoginPageHandler(sessions *middleware.Sessions, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := c.Query("next")
		if sessions.Current(c) != nil {
			c.Redirect(http.StatusFound, safeNext(next))
			return
		}
		site.render(c, http.StatusOK, "admin_login.html", gin.H{"next": next})
	}
}

// LoginHandler checks the submitted credentials and starts a session.
func LoginHandler(st *store.Store, sessions *middleware.Sessions, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			site.render(c, http.StatusBadRequest, "admin_login.html", gin.H{"error": "Invalid request"})
			return
		}
		admin, err := st.Authenticate(c.Request.Context(), req.Username, req.Password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logrus.WithFields(logrus.Fields{
				"username":  strings.TrimSpace(req.Username),
				"client_ip": c.ClientIP(),
			}).Warn("Failed admin login")
			site.render(c, http.StatusUnauthorized, "admin_login.html", gin.H{
				"error": "Invalid credentials",
				"next":  req.Next,
			})
			return
		}
		if err != nil {
			site.serverError(c, "Admin login failed", err)
			return
		}
		if _, err := sessions.Issue(c, admin.Username); err != nil {
			site.serverError(c, "Failed to issue session", err)
			return
		}
		logrus.WithField("username", admin.Username).Info("Admin logged in")
		c.Redirect(http.StatusFound, safeNext(req.Next))
	}
}

// LogoutHandler ends the session and returns to the login form.
func LogoutHandler(sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.AdminUsername(c)
		sessions.End(c)
		logrus.WithField("username", username).Info("Admin logged out")
		c.Redirect(http.StatusFound, middleware.LoginPath)
	}
}
