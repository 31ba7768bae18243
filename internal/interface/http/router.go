package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krushisathi/krushi-sathi/internal/infra/config"
	"github.com/krushisathi/krushi-sathi/internal/infra/ratelimit"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiter ratelimit.Limiter, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		securityHeaders(),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		maxBodyBytes(cfg.HTTP.MaxBodyBytes),
		errorHandlingMiddleware(logger),
	)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/ping", handler.Ping)
		api.GET("/updates", handler.Updates)
		api.POST("/advisory", rateLimitMiddleware(limiter, logger), handler.Advisory)

		advisories := api.Group("/advisories", identityMiddleware(cfg.Auth.JWTSecret))
		{
			advisories.POST("", handler.SaveAdvisory)
			advisories.GET("", handler.ListAdvisories)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
