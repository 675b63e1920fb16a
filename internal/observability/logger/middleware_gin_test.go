package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
)

func TestGinMiddlewareSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("expected X-Request-Id header to be set")
	}
}

func TestGinMiddlewarePropagatesIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		seen = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("expected incoming request id echoed, got %q", got)
	}
	if seen != "req-42" {
		t.Fatalf("expected request id in handler context, got %q", seen)
	}
}

func TestGinMiddlewareLogsQuoteID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{Log: zap.New(core)}))
	r.GET("/quotes/:quote_id", func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			obscontext.WithQuoteID(c.Request.Context(), c.Param("quote_id")),
		)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/quotes/9000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one access line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["quote_id"] != "9000" {
		t.Fatalf("expected quote_id on the access line, got %v", fields["quote_id"])
	}
}
