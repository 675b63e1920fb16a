package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig tunes the gin access logger.
type MiddlewareConfig struct {
	Log *zap.Logger
	// SkipPaths suppresses the access line for noisy endpoints such as
	// health probes.
	SkipPaths []string
}

// GinMiddleware assigns every request an id, stores it in the request
// context, and emits one access-log line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	log := cfg.Log
	if log == nil {
		log = zap.L()
	}
	log = log.Named("http.access")

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(
			obscontext.WithRequestID(c.Request.Context(), requestID),
		)

		start := time.Now()
		c.Next()

		if skip[c.FullPath()] || skip[c.Request.URL.Path] {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Any("headers", MaskHeaders(c.Request.Header)),
		}
		if quoteID := obscontext.QuoteIDFromGin(c); quoteID != "" {
			fields = append(fields, zap.String("quote_id", quoteID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			log.Warn("request failed", fields...)
			return
		}
		log.Info("request handled", fields...)
	}
}
