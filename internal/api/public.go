package api

import (
	"errors"
	"html/template"
	"net/http" // HTTP status codes
	"net/url"
	"strconv"

	"expense_portal/internal/domain"
	"expense_portal/internal/store"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// filterFromQuery reads category_id, start_date and end_date.
func filterFromQuery(c *gin.Context) (store.Filter, error) {
	return store.ParseFilter(c.Query("category_id"), c.Query("start_date"), c.Query("end_date"))
}

// filterQuery encodes f back into query parameters for links on the page.
func filterQuery(f store.Filter) string {
	v := url.Values{}
	if f.CategoryID != nil {
		v.Set("category_id", strconv.FormatUint(uint64(*f.CategoryID), 10))
	}
	if s := f.StartString(); s != "" {
		v.Set("start_date", s)
	}
	if s := f.EndString(); s != "" {
		v.Set("end_date", s)
	}
	return v.Encode()
}

// HomeHandler renders the public listing with announcements and filters.
func HomeHandler(st *store.Store, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := filterFromQuery(c)
		if errors.Is(err, domain.ErrInvalidCategoryID) {
			site.render(c, http.StatusBadRequest, "400.html", nil)
			return
		}
		ctx := c.Request.Context()

		categories, err := st.ListCategories(ctx)
		if err != nil {
			site.serverError(c, "Failed to load categories", err)
			return
		}
		announcements, err := st.RecentAnnouncements(ctx, store.RecentAnnouncementLimit)
		if err != nil {
			site.serverError(c, "Failed to load announcements", err)
			return
		}
		expenses, err := st.ListExpenses(ctx, f)
		if err != nil {
			site.serverError(c, "Failed to load expenses", err)
			return
		}

		var selected uint
		if f.CategoryID != nil {
			selected = *f.CategoryID
		}
		site.render(c, http.StatusOK, "user_home.html", gin.H{
			"categories":           categories,
			"announcements":        announcements,
			"expenses":             expenses,
			"total_spent":          store.SumAmounts(expenses),
			"selected_category_id": selected,
			"start_date":           f.StartString(),
			"end_date":             f.EndString(),
			"query":                template.URL(filterQuery(f)),
		})
	}
}

// HealthHandler reports whether the database is reachable.
func HealthHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			logrus.WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
