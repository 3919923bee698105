package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/handler"
	"github.com/techquest/techquest-backend/internal/middleware"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Challenge *handler.ChallengeHandler
	Session   *handler.SessionHandler
	Admin     *handler.AdminHandler
	Blog      *handler.BlogHandler
	System    *handler.SystemHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/status", handlers.System.Status)

		publicAPI.GET("/challenges", handlers.Challenge.List)
		publicAPI.POST("/challenges/contribute", handlers.Challenge.Contribute)

		publicAPI.POST("/sessions", handlers.Session.Start)
		publicAPI.GET("/sessions/:id", handlers.Session.Get)
		publicAPI.POST("/sessions/:id/advance", handlers.Session.Advance)
		publicAPI.DELETE("/sessions/:id", handlers.Session.Cancel)

		publicAPI.GET("/blogs", handlers.Blog.List)
		publicAPI.GET("/blogs/:slug", handlers.Blog.GetBySlug)
	}

	// Rate limiter for the admin login route (10 attempts per minute per IP).
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 2. Admin Login (Public, Rate Limited) ─────────────────────────
	router.POST("/api/v1/admin/login", loginLimiter.Middleware(), handlers.Admin.Login)

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/challenges/pending", handlers.Admin.ListPending)
		adminAPI.PATCH("/challenges/:id/approve", handlers.Admin.Approve)
		adminAPI.POST("/challenges/seed", handlers.Admin.Seed)

		adminAPI.POST("/blogs", handlers.Blog.Create)
		adminAPI.PUT("/blogs/:id", handlers.Blog.Update)
		adminAPI.DELETE("/blogs/:id", handlers.Blog.Delete)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/review/stream", handlers.WS.ReviewStream)
	}

	return router
}
