package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/intake-backend/internal/config"
	"github.com/stemsi/intake-backend/internal/handler"
	"github.com/stemsi/intake-backend/internal/middleware"
	"github.com/stemsi/intake-backend/internal/response"
)

// schemaMaxAge is how long clients may cache a questionnaire schema.
const schemaMaxAge = 300

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Questionnaire *handler.QuestionnaireHandler
	Submission    *handler.SubmissionHandler
	System        *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept-Language", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every log line and response carries it.
	router.Use(response.RequestIDMiddleware(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())
	router.Use(middleware.Locale())

	router.GET("/health", handlers.System.Health)
	router.GET("/ready", handlers.System.Ready)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	api := router.Group("/api/v1")

	// ─── 1. Login (browser ⇄ Mini App) ─────────────────────────────────
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/session", handlers.Auth.CreateSession)
		auth.POST("/confirm", handlers.Auth.Confirm)
		auth.GET("/redeem", handlers.Auth.Redeem)
	}

	// ─── 2. Questionnaires ─────────────────────────────────────────────
	q := api.Group("/questionnaires")
	{
		q.POST("/submit", handlers.Submission.Submit)

		schemas := q.Group("")
		schemas.Use(middleware.CacheControl(schemaMaxAge))
		{
			schemas.GET("", handlers.Questionnaire.ListTypes)
			schemas.GET("/:type", handlers.Questionnaire.GetSchema)
		}

		q.POST("/:type/validate", handlers.Questionnaire.Validate)
		q.POST("/:type/preview", handlers.Questionnaire.Preview)
	}

	return router
}
