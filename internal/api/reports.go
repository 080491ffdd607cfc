package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strconv"
	"time"

	"expense_portal/internal/domain"
	"expense_portal/internal/store"
	"expense_portal/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// summaryGenerationKey is bumped whenever an expense is recorded, which
// retires every cached summary at once.
const summaryGenerationKey = "summary:gen"

// ExportFilename is the attachment name of the CSV export.
const ExportFilename = "expenses_export.csv"

// SummaryResponse feeds the monthly chart.
type SummaryResponse struct {
	Labels []string  `json:"labels"` // YYYY-MM, ascending
	Totals []float64 `json:"totals"` // Sum per month
}

func summaryCacheKey(gen int64, f store.Filter) string {
	return "summary:g" + strconv.FormatInt(gen, 10) + ":" + f.Key()
}

// SummaryHandler returns per-month totals of the filtered expenses.
func SummaryHandler(st *store.Store, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := filterFromQuery(c)
		if errors.Is(err, domain.ErrInvalidCategoryID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}
		ctx := c.Request.Context()

		cacheKey := ""
		if gen, err := utils.CacheGeneration(ctx, rdb, summaryGenerationKey); err != nil {
			logrus.WithError(err).Warn("Summary cache unavailable")
		} else {
			cacheKey = summaryCacheKey(gen, f)
			var cached SummaryResponse
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		months, err := st.MonthlySummary(ctx, f)
		if err != nil {
			logrus.WithError(err).Error("Failed to build monthly summary")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
			return
		}
		resp := SummaryResponse{
			Labels: make([]string, 0, len(months)),
			Totals: make([]float64, 0, len(months)),
		}
		for _, m := range months {
			resp.Labels = append(resp.Labels, m.Month)
			resp.Totals = append(resp.Totals, m.Total.InexactFloat64())
		}
		if cacheKey != "" && ttl > 0 {
			if err := utils.SetCache(ctx, rdb, cacheKey, resp, ttl); err != nil {
				logrus.WithError(err).Warn("Failed to cache summary")
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ExportHandler streams the filtered expenses as a CSV attachment.
func ExportHandler(st *store.Store, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := filterFromQuery(c)
		if errors.Is(err, domain.ErrInvalidCategoryID) {
			site.render(c, http.StatusBadRequest, "400.html", nil)
			return
		}
		header := c.Writer.Header()
		header.Set("Content-Type", "text/csv; charset=utf-8")
		header.Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)

		n, err := st.ExportCSV(c.Request.Context(), f, c.Writer)
		if err != nil {
			if !c.Writer.Written() {
				header.Del("Content-Type")
				header.Del("Content-Disposition")
			}
			site.serverError(c, "CSV export failed", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"rows":   n,
			"filter": f.Key(),
		}).Info("CSV export")
	}
}
