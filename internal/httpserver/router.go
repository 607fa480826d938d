// Package httpserver hosts the interpret handler on a plain HTTP listener for
// local development.
package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"canvas-agent/internal/config"
)

const (
	codeRateLimited    = "RATE_LIMITED"
	messageRateLimited = "Too many requests. Please slow down."
)

// NewRouter mounts interpret at POST /interpret behind request logging and a
// process-wide token bucket. A zero RPS disables throttling.
func NewRouter(limits config.RateLimitConfig, interpret http.Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/interpret", throttle(newLimiter(limits)), gin.WrapH(interpret))

	return router
}

func newLimiter(limits config.RateLimitConfig) *rate.Limiter {
	if limits.RPS <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := limits.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(limits.RPS), burst)
}

func throttle(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": codeRateLimited, "message": messageRateLimited},
			})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("correlation_id", c.Writer.Header().Get("X-Correlation-Id")),
		)
	}
}
