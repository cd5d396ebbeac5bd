package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/bookworm/internal/auth"
)

// RouterConfig receives all handler dependencies, keeping the router
// testable without a real database or store.
type RouterConfig struct {
	Catalog        *CatalogController
	Reviews        *ReviewsController
	Health         *HealthController
	Covers         *CoversController
	AuthController *auth.Controller
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool
	Registry       *prometheus.Registry
}

// NewRouter creates and configures the HTTP router with all endpoints. Read
// endpoints are public; review submission requires a session.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before the session middleware so that session context is
	// added on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(cfg.SessionManager.IdentifyUser())
	}

	router.GET("/health", cfg.Health.Status)
	router.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	if cfg.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/books", cfg.Catalog.GetBooks)
		api.GET("/authors", cfg.Catalog.GetAuthors)
		api.GET("/notifications", cfg.Catalog.Notifications)
		api.POST("/refresh/:subject", cfg.Catalog.Refresh)

		writes := api.Group("")
		writes.Use(auth.RequireUser())
		{
			writes.POST("/books/:isbn/reviews", cfg.Reviews.SubmitReview)
			writes.POST("/books/:isbn/rating", cfg.Reviews.SubmitRating)
		}
	}

	if cfg.Covers != nil {
		router.GET("/covers", cfg.Covers.GetCover)
	}

	if cfg.AuthController != nil {
		authGroup := router.Group("/auth")
		{
			authGroup.POST("/register", cfg.AuthController.Register)
			authGroup.POST("/login", cfg.AuthController.Login)
			authGroup.POST("/logout", cfg.AuthController.Logout)
			authGroup.GET("/me", cfg.AuthController.Me)
		}
	}

	return router
}
