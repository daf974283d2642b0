// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// caller identity, idempotency, burst limiting, CORS and security headers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/mood-rx-backend/internal/config"
	"github.com/tbourn/mood-rx-backend/internal/http/handlers"
	"github.com/tbourn/mood-rx-backend/internal/http/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Deps are the collaborators RegisterRoutes mounts.
type Deps struct {
	Prescriptions handlers.PrescriptionService
	Shares        handlers.ShareService
	// IdemLookup lets replays skip the burst limiter. Optional.
	IdemLookup middleware.IdempotencyLookup
	// Ready reports storage health for /health. Optional.
	Ready func(ctx context.Context) error
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger or RedactingLogger: request-scoped logger and access log
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Auth: resolve the caller before anything keys on identity
//  8. Idempotency validator (before the burst limiter to allow bypass on replay)
//  9. Burst limiter (per user/IP, bypass on replay)
//  10. CORS, security headers and gzip
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	} else {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Auth(middleware.AuthOptions{
		JWTSecret:       cfg.Auth.JWTSecret,
		AllowUserHeader: cfg.Auth.AllowUserHeader,
	}))
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, deps.IdemLookup))

	bl := middleware.NewBurstLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByCaller())
	r.Use(bl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(handlers.NotFound)

	r.GET("/health", healthHandler(deps.Ready))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Prescriptions, deps.Shares)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/mood-rx", h.CreatePrescription)
		api.GET("/mood-rx/:id", h.GetPrescription)
		api.DELETE("/mood-rx/:id", h.DeletePrescription)
		api.POST("/mood-rx/:id/share", h.SharePrescription)

		api.GET("/share/:token", h.ViewShared)

		api.GET("/vault", h.ListVault)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.HeaderUserID, middleware.HeaderIdempotencyKey, "If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID", "Retry-After", "ETag", "Idempotency-Replayed",
			"X-RateLimit-Limit", "X-RateLimit-Remaining",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return cors.New(conf)
}

// healthHandler answers 200 when storage is reachable, 503 otherwise.
func healthHandler(ready func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// limitBody caps the request body size for all endpoints to maxBytes using
// http.MaxBytesReader. Oversized bodies fail JSON binding downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
