package api

import (
	"html/template"
	"net/http" // HTTP status codes
	"time"

	"expense_portal/internal/domain"
	"expense_portal/internal/middleware"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Site carries the names shown on every page.
type Site struct {
	AppName     string
	VillageName string
}

// TemplateFuncs are the helpers available to every template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"amount": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":   func(t time.Time) string { return t.Format(domain.DateLayout) },
		"year":   func() int { return time.Now().Year() },
	}
}

// page returns the data every template expects, merged with data.
func (s Site) page(c *gin.Context, data gin.H) gin.H {
	h := gin.H{
		"app_name":       s.AppName,
		"village_name":   s.VillageName,
		"admin_username": middleware.AdminUsername(c),
	}
	for k, v := range data {
		h[k] = v
	}
	return h
}

func (s Site) render(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, s.page(c, data))
}

// serverError logs err and renders the 500 page, unless a response was already started.
func (s Site) serverError(c *gin.Context, msg string, err error) {
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	}).Error(msg)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	s.render(c, http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}

// NotFoundHandler renders the 404 page.
func NotFoundHandler(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		site.render(c, http.StatusNotFound, "404.html", nil)
	}
}

// RecoveryHandler renders the 500 page after a panic.
func RecoveryHandler(site Site) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		}).Error("Recovered from panic")
		if !c.Writer.Written() {
			site.render(c, http.StatusInternalServerError, "500.html", nil)
		}
		c.Abort()
	}
}

// ErrorPagesMiddleware renders the 500 page for errors attached with c.Error
// by handlers that aborted without writing a response.
func ErrorPagesMiddleware(site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		site.render(c, http.StatusInternalServerError, "500.html", nil)
	}
}
