package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/handler"
	"github.com/stcolombus/campus-portal/internal/middleware"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/response"
	"github.com/stcolombus/campus-portal/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	AuthEvents *handler.AuthEventsHandler
	Dashboard  *handler.DashboardHandler
	Department *handler.DepartmentHandler
	Course     *handler.CourseHandler
	Notice     *handler.NoticeHandler
	Admission  *handler.AdmissionHandler
	Setting    *handler.SettingHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the background cleanup of the rate limiters.
func SetupRouter(
	ctx context.Context,
	verifier service.SessionVerifier,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli())

	// Admission documents kept on local disk are served with long-lived caching.
	if cfg.S3Bucket == "" {
		uploadsGroup := router.Group("/uploads")
		uploadsGroup.Use(middleware.CacheControl(31536000))
		{
			uploadsGroup.Static("/", cfg.UploadDir)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(verifier)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	admissionLimiter := middleware.NewRateLimiter(ctx, cfg.AdmissionRateLimit, time.Hour)

	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
		publicAPI.GET("/departments", middleware.CacheControl(60), handlers.Department.ListDepartments)
		publicAPI.GET("/courses", middleware.CacheControl(60), handlers.Course.ListCourses)
		publicAPI.GET("/notices", handlers.Notice.ListPublicNotices)
		publicAPI.POST("/admissions", admissionLimiter.Middleware(), handlers.Admission.SubmitAdmission)
	}

	// Rate limiter for credential routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(ctx, 30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		auth.POST("/logout", requireSession, handlers.Auth.Logout)
		auth.GET("/session", requireSession, handlers.Auth.Session)
		auth.GET("/me", requireSession, handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSSession(verifier))
	{
		ws.GET("/auth/events", handlers.AuthEvents.StreamAuthEvents)
	}

	// ─── 3. Dashboard (any role) ───────────────────────────────────────
	router.GET("/api/v1/dashboard", requireSession, middleware.NoStore(), handlers.Dashboard.GetDashboard)

	// ─── 4. Admin Group (Session + Role) ───────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		requireSession,
		middleware.RequireRole(model.RoleAdmin),
		middleware.NoStore(),
	)
	{
		adminAPI.GET("/stats", handlers.Dashboard.GetStats)

		adminAPI.GET("/departments", handlers.Department.ListDepartments)
		adminAPI.POST("/departments", handlers.Department.CreateDepartment)
		adminAPI.PUT("/departments/:id", handlers.Department.UpdateDepartment)
		adminAPI.DELETE("/departments/:id", handlers.Department.DeleteDepartment)

		adminAPI.GET("/courses", handlers.Course.ListCourses)
		adminAPI.POST("/courses", handlers.Course.CreateCourse)
		adminAPI.PUT("/courses/:id", handlers.Course.UpdateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Course.DeleteCourse)

		adminAPI.GET("/notices", handlers.Notice.ListNotices)
		adminAPI.POST("/notices", handlers.Notice.CreateNotice)
		adminAPI.PUT("/notices/:id", handlers.Notice.UpdateNotice)
		adminAPI.PATCH("/notices/:id/publish", handlers.Notice.PublishNotice)
		adminAPI.DELETE("/notices/:id", handlers.Notice.DeleteNotice)

		adminAPI.GET("/admissions", handlers.Admission.ListAdmissions)
		adminAPI.PATCH("/admissions/:id/review", handlers.Admission.ReviewAdmission)
		adminAPI.DELETE("/admissions/:id", handlers.Admission.DeleteAdmission)

		adminAPI.GET("/settings", handlers.Setting.GetAllSettings)
		adminAPI.PUT("/settings", handlers.Setting.UpdateSettings)
	}

	return router
}
