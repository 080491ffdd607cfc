package api

import (
	"errors"
	"net/http" // HTTP status codes

	"expense_portal/internal/domain"
	"expense_portal/internal/middleware"
	"expense_portal/internal/store"
	"expense_portal/internal/utils" // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

const missingFields = "Please fill all required fields."

// ExpenseRequest is the new expense form
type ExpenseRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Amount      string `form:"amount" binding:"required"`
	DateSpent   string `form:"date_spent" binding:"required"`
	CategoryID  string `form:"category_id" binding:"required"`
	Description string `form:"description" binding:"max=1000"`
	ReceiptURL  string `form:"receipt_url" binding:"max=500"`
}

// CategoryRequest is the new category form
type CategoryRequest struct {
	Name string `form:"name" binding:"required,max=100"`
}

// AnnouncementRequest is the new announcement form
type AnnouncementRequest struct {
	Title string `form:"title" binding:"required,max=200"`
	Body  string `form:"body" binding:"required,max=2000"`
}

// DashboardHandler renders the admin dashboard.
func DashboardHandler(st *store.Store, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		categories, err := st.ListCategories(ctx)
		if err != nil {
			site.serverError(c, "Failed to load categories", err)
			return
		}
		expenses, err := st.RecentExpenses(ctx, store.RecentExpenseLimit)
		if err != nil {
			site.serverError(c, "Failed to load recent expenses", err)
			return
		}
		announcements, err := st.RecentAnnouncements(ctx, store.RecentAnnouncementLimit)
		if err != nil {
			site.serverError(c, "Failed to load announcements", err)
			return
		}
		site.render(c, http.StatusOK, "admin_dashboard.html", gin.H{
			"categories":    categories,
			"expenses":      expenses,
			"announcements": announcements,
			"flash":         popFlash(c),
		})
	}
}

// fieldLabels names form fields in flash messages where the struct field name reads badly.
var fieldLabels = map[string]string{
	"ReceiptURL": "Receipt URL",
	"DateSpent":  "Date",
	"CategoryID": "Category",
}

// bindingMessage turns a form binding error into a flash message. Missing
// fields report fallback; over-long fields name the field and its limit.
func bindingMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return fallback
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "max" {
			label, ok := fieldLabels[fe.Field()]
			if !ok {
				label = fe.Field()
			}
			return label + " must be at most " + fe.Param() + " characters."
		}
	}
	return fallback
}

// backToDashboard flashes the outcome of a form submission and redirects.
func backToDashboard(c *gin.Context, kind, message string) {
	setFlash(c, kind, message)
	c.Redirect(http.StatusFound, dashboardPath)
}

// CreateExpenseHandler records an expense and retires cached summaries.
func CreateExpenseHandler(st *store.Store, rdb *redis.Client, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExpenseRequest
		if err := c.ShouldBind(&req); err != nil {
			backToDashboard(c, FlashError, bindingMessage(err, missingFields))
			return
		}
		expense, err := st.CreateExpense(c.Request.Context(), store.ExpenseInput{
			Title:       req.Title,
			Amount:      req.Amount,
			DateSpent:   req.DateSpent,
			Description: req.Description,
			ReceiptURL:  req.ReceiptURL,
			CategoryID:  req.CategoryID,
		})
		if domain.IsValidation(err) {
			backToDashboard(c, FlashError, domain.UserMessage(err))
			return
		}
		if err != nil {
			site.serverError(c, "Failed to create expense", err)
			return
		}
		if err := utils.BumpCacheGeneration(c.Request.Context(), rdb, summaryGenerationKey); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate summary cache")
		}
		logrus.WithFields(logrus.Fields{
			"admin":       middleware.AdminUsername(c),
			"expense_id":  expense.ID,
			"category_id": expense.CategoryID,
			"amount":      expense.Amount.StringFixed(2),
			"date_spent":  expense.DateSpent.Format(domain.DateLayout),
		}).Info("Expense recorded")
		backToDashboard(c, FlashSuccess, "Expense added successfully.")
	}
}

// CreateCategoryHandler adds a category.
func CreateCategoryHandler(st *store.Store, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBind(&req); err != nil {
			backToDashboard(c, FlashError, bindingMessage(err, "Category name is required."))
			return
		}
		category, err := st.CreateCategory(c.Request.Context(), req.Name)
		if domain.IsValidation(err) {
			backToDashboard(c, FlashError, domain.UserMessage(err))
			return
		}
		if err != nil {
			site.serverError(c, "Failed to create category", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin":       middleware.AdminUsername(c),
			"category_id": category.ID,
			"name":        category.Name,
		}).Info("Category created")
		backToDashboard(c, FlashSuccess, "Category created.")
	}
}

// CreateAnnouncementHandler publishes an announcement.
func CreateAnnouncementHandler(st *store.Store, site Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnnouncementRequest
		if err := c.ShouldBind(&req); err != nil {
			backToDashboard(c, FlashError, bindingMessage(err, "Title and body are required."))
			return
		}
		announcement, err := st.CreateAnnouncement(c.Request.Context(), req.Title, req.Body)
		if domain.IsValidation(err) {
			backToDashboard(c, FlashError, domain.UserMessage(err))
			return
		}
		if err != nil {
			site.serverError(c, "Failed to publish announcement", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin":           middleware.AdminUsername(c),
			"announcement_id": announcement.ID,
		}).Info("Announcement published")
		backToDashboard(c, FlashSuccess, "Announcement published.")
	}
}
