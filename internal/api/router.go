package api

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"expense_portal/internal/middleware" // Custom package for middleware
	"expense_portal/internal/store"
	"expense_portal/web"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// RouterOptions holds everything the HTTP layer depends on.
type RouterOptions struct {
	Store      *store.Store
	Redis      *redis.Client // nil disables caching and session revocation
	Sessions   *middleware.Sessions
	Site       Site
	SummaryTTL time.Duration
}

// NewRouter builds the gin engine with every route of the portal.
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestLogger(),
		gin.CustomRecovery(RecoveryHandler(opts.Site)),
		ErrorPagesMiddleware(opts.Site),
	)
	r.StaticFS("/static", http.FS(static))
	r.NoRoute(NotFoundHandler(opts.Site))

	// Public routes
	r.GET("/", HomeHandler(opts.Store, opts.Site))
	r.GET("/healthz", HealthHandler(opts.Store))
	r.GET("/api/expenses_summary", SummaryHandler(opts.Store, opts.Redis, opts.SummaryTTL))
	r.GET("/api/export.csv", ExportHandler(opts.Store, opts.Site))

	// Login is reachable without a session
	r.GET("/admin/login", LoginPageHandler(opts.Sessions, opts.Site))
	r.POST("/admin/login", LoginHandler(opts.Store, opts.Sessions, opts.Site))

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.SessionAuthMiddleware(opts.Sessions), middleware.AdminOnlyMiddleware(opts.Store, opts.Sessions))
	adminGroup.GET("", DashboardHandler(opts.Store, opts.Site))
	adminGroup.GET("/logout", LogoutHandler(opts.Sessions))
	adminGroup.POST("/expense/new", CreateExpenseHandler(opts.Store, opts.Redis, opts.Site))
	adminGroup.POST("/category/new", CreateCategoryHandler(opts.Store, opts.Site))
	adminGroup.POST("/announcement/new", CreateAnnouncementHandler(opts.Store, opts.Site))

	return r, nil
}
