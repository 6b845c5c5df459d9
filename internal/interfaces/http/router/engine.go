package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/masgolf/backend/docs"
	"github.com/masgolf/backend/internal/infrastructure/logger"
	"github.com/masgolf/backend/internal/infrastructure/telemetry"
	"github.com/masgolf/backend/internal/interfaces/http/dto"
	"github.com/masgolf/backend/internal/interfaces/http/handler"
	"github.com/masgolf/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Config holds the middleware settings of the engine
type Config struct {
	Logger         *zap.Logger
	TrustedProxies []string
	HSTS           bool
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	RateLimiter    *middleware.RateLimiter // nil disables the general limit
	LoginLimiter   *middleware.RateLimiter // nil disables the login limit
	Session        middleware.SessionConfig
	CronSecret     string
	Metrics        *telemetry.Metrics
	TracingService string // empty disables tracing middleware
	Swagger        middleware.SwaggerConfig
}

// Handlers are the HTTP handlers to mount. Nil handlers leave their routes out.
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	Customer  *handler.CustomerHandler
	Booking   *handler.BookingHandler
	Survey    *handler.SurveyHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	Gift      *handler.GiftHandler
	Campaign  *handler.CampaignHandler
	Analytics *handler.AnalyticsHandler
	Content   *handler.ContentHandler
	Batch     *handler.BatchHandler
	Cron      *handler.CronHandler
}

// New builds the gin engine with the middleware stack and every route
func New(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// request id first so every later layer can tag with it
	engine.Use(middleware.RequestID())
	if cfg.TracingService != "" {
		engine.Use(middleware.Tracing(cfg.TracingService)...)
	}
	engine.Use(logger.Recovery(log), logger.GinMiddleware(log))
	if cfg.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	}
	engine.Use(middleware.Secure(cfg.HSTS), middleware.CORS(cfg.CORS), middleware.BodyLimit(cfg.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	admin := noop
	adminPage := noop
	if cfg.Session.Validator != nil {
		admin = middleware.RequireAdmin(cfg.Session)
		adminPage = middleware.RequireAdminPage(cfg.Session)
	}
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, admin), ginSwagger.WrapHandler(swaggerFiles.Handler))

	if h.Auth != nil {
		mountAdminPages(engine, h.Auth, adminPage, limit(cfg.LoginLimiter))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	for _, g := range apiGroups(h, admin, limit(cfg.LoginLimiter), middleware.CronAuth(cfg.CronSecret)) {
		r.Register(g)
	}
	r.Setup()

	return engine
}

func noop(c *gin.Context) { c.Next() }

func limit(l *middleware.RateLimiter) gin.HandlerFunc {
	if l == nil {
		return noop
	}
	return middleware.RateLimit(l)
}

func mountAdminPages(engine *gin.Engine, auth *handler.AuthHandler, guard, loginLimit gin.HandlerFunc) {
	pages := engine.Group("/admin")
	pages.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/dashboard") })
	pages.GET("/login", auth.LoginPage)
	pages.POST("/login", loginLimit, auth.LoginForm)
	pages.GET("/logout", auth.LogoutPage)
	pages.POST("/logout", auth.LogoutPage)
	pages.GET("/dashboard", guard, auth.Dashboard)
}

func apiGroups(h Handlers, admin, loginLimit, cron gin.HandlerFunc) []*DomainGroup {
	var groups []*DomainGroup

	if h.System != nil {
		g := NewDomainGroup("system", "/system")
		g.GET("/info", h.System.GetSystemInfo)
		groups = append(groups, g)
	}

	if h.Auth != nil {
		g := NewDomainGroup("auth", "/auth")
		g.POST("/login", loginLimit, h.Auth.Login)
		g.POST("/logout", h.Auth.Logout)
		g.GET("/me", admin, h.Auth.Me)
		g.PUT("/password", admin, h.Auth.ChangePassword)
		groups = append(groups, g)
	}

	if h.Customer != nil {
		g := NewDomainGroup("customers", "/customers").Use(admin)
		g.POST("", h.Customer.Create)
		g.GET("", h.Customer.List)
		g.GET("/segments", h.Customer.Segments)
		g.GET("/:id", h.Customer.GetByID)
		g.PUT("/:id", h.Customer.Update)
		g.PUT("/:id/opt-out", h.Customer.SetOptOut)
		g.DELETE("/:id", h.Customer.Delete)
		groups = append(groups, g)
	}

	if h.Booking != nil {
		b := h.Booking
		g := NewDomainGroup("bookings", "/bookings")
		// the public site books without a session
		g.GET("/availability", b.Availability)
		g.GET("/next-available", b.NextAvailable)
		g.POST("", b.Create)
		g.GET("", admin, b.List)
		g.GET("/:id", admin, b.GetByID)
		g.PUT("/:id/status", admin, b.UpdateStatus)
		g.DELETE("/:id", admin, b.Delete)
		g.POST("/:id/reminder", admin, b.ScheduleReminder)
		g.GET("/:id/reminder", admin, b.GetReminder)
		g.DELETE("/:id/reminder", admin, b.CancelReminder)

		settings := NewDomainGroup("booking-settings", "")
		settings.GET("/booking-settings", b.GetSettings)
		settings.PUT("/booking-settings", admin, b.UpdateSettings)
		settings.GET("/booking-hours/:day", admin, b.Hours)
		settings.PUT("/booking-hours/:day", admin, b.ReplaceHours)
		settings.GET("/booking-blocks", admin, b.Blocks)
		settings.POST("/booking-blocks", admin, b.CreateBlock)
		settings.DELETE("/booking-blocks/:id", admin, b.DeleteBlock)
		groups = append(groups, g, settings)
	}

	if h.Survey != nil {
		g := NewDomainGroup("surveys", "/surveys")
		g.POST("", h.Survey.Create)
		g.GET("", admin, h.Survey.List)
		g.GET("/:id", admin, h.Survey.GetByID)
		g.PUT("/:id", admin, h.Survey.Update)
		g.DELETE("/:id", admin, h.Survey.Delete)
		groups = append(groups, g)
	}

	if h.Product != nil {
		g := NewDomainGroup("products", "/products").Use(admin)
		g.POST("", h.Product.Create)
		g.GET("", h.Product.List)
		g.GET("/:id", h.Product.GetByID)
		g.PUT("/:id", h.Product.Update)
		g.DELETE("/:id", h.Product.Delete)
		groups = append(groups, g)
	}

	if h.Inventory != nil {
		g := NewDomainGroup("inventory", "/inventory").Use(admin)
		g.POST("/transactions", h.Inventory.RecordTransaction)
		g.GET("/transactions", h.Inventory.ListTransactions)
		g.GET("/stock/:productId", h.Inventory.Stock)
		g.GET("/dashboard", h.Inventory.Dashboard)
		groups = append(groups, g)
	}

	if h.Gift != nil {
		g := NewDomainGroup("gifts", "/gifts").Use(admin)
		g.POST("", h.Gift.Create)
		g.GET("", h.Gift.List)
		g.GET("/:id", h.Gift.GetByID)
		g.PUT("/:id", h.Gift.Update)
		g.DELETE("/:id", h.Gift.Delete)
		groups = append(groups, g)
	}

	if h.Campaign != nil {
		g := NewDomainGroup("campaigns", "/campaigns").Use(admin)
		g.POST("", h.Campaign.Create)
		g.GET("", h.Campaign.List)
		g.GET("/:id", h.Campaign.GetByID)
		g.PUT("/:id", h.Campaign.Update)
		g.DELETE("/:id", h.Campaign.Delete)
		g.POST("/:id/send", h.Campaign.Send)
		g.POST("/:id/split", h.Campaign.Split)
		g.GET("/:id/recipients.csv", h.Campaign.ExportRecipients)

		kakao := NewDomainGroup("kakao", "/kakao").Use(admin)
		kakao.POST("/send", h.Campaign.SendKakao)
		groups = append(groups, g, kakao)
	}

	if h.Analytics != nil {
		g := NewDomainGroup("analytics", "/analytics/ab-test")
		g.GET("/results", admin, h.Analytics.Results)
		g.GET("/settings/:test", h.Analytics.GetSettings)
		g.PUT("/settings/:test", admin, h.Analytics.UpdateSettings)
		groups = append(groups, g)
	}

	if h.Content != nil {
		ct := h.Content
		posts := NewDomainGroup("posts", "/posts")
		posts.GET("", ct.ListPosts)
		posts.GET("/slug/:slug", ct.GetPostBySlug)
		posts.GET("/:id", admin, ct.GetPost)
		posts.POST("", admin, ct.CreatePost)
		posts.PUT("/:id", admin, ct.UpdatePost)
		posts.DELETE("/:id", admin, ct.DeletePost)

		images := NewDomainGroup("images", "/images").Use(admin)
		images.POST("", ct.UploadImage)
		images.GET("", ct.ListImages)
		images.POST("/webp", ct.MigrateAllImages)
		images.GET("/:id", ct.GetImage)
		images.PUT("/:id", ct.UpdateImage)
		images.DELETE("/:id", ct.DeleteImage)
		images.POST("/:id/webp", ct.MigrateImage)

		plans := NewDomainGroup("funnel-plans", "/funnel-plans").Use(admin)
		plans.POST("", ct.CreatePlan)
		plans.GET("", ct.ListPlans)
		plans.GET("/:id", ct.GetPlan)
		plans.PUT("/:id", ct.UpdatePlan)
		plans.DELETE("/:id", ct.DeletePlan)
		groups = append(groups, posts, images, plans)
	}

	if h.Batch != nil {
		g := NewDomainGroup("batch", "/batch/jobs").Use(admin)
		g.POST("", h.Batch.Submit)
		g.GET("", h.Batch.List)
		g.GET("/:id", h.Batch.Get)
		groups = append(groups, g)
	}

	if h.Cron != nil {
		// external schedulers call with GET, manual runs with POST
		g := NewDomainGroup("cron", "/cron").Use(cron)
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			g.Handle(method, "/send-scheduled-sms", h.Cron.DispatchSMS)
			g.Handle(method, "/ab-test-monitor", h.Cron.MonitorABTest)
		}
		groups = append(groups, g)
	}

	return groups
}
