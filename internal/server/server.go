// Package server exposes the engine over HTTP: quotes, phases, payment
// templates, allocation, schedule generation, and the payment ledger.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	allocationdomain "github.com/halion16/refit-management-sub000/internal/allocation/domain"
	"github.com/halion16/refit-management-sub000/internal/config"
	ledgerdomain "github.com/halion16/refit-management-sub000/internal/ledger/domain"
	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
	"github.com/halion16/refit-management-sub000/internal/observability/logger"
	paymenttemplatedomain "github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	phaseservice "github.com/halion16/refit-management-sub000/internal/phase/service"
	quoteservice "github.com/halion16/refit-management-sub000/internal/quote/service"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type Params struct {
	fx.In

	Config        config.Config
	Log           *zap.Logger
	DB            *gorm.DB
	PhaseSvc      *phaseservice.Service
	QuoteSvc      *quoteservice.Service
	TemplateSvc   paymenttemplatedomain.Service
	AllocationSvc allocationdomain.Service
	ScheduleSvc   scheduledomain.Service
	LedgerSvc     ledgerdomain.Service
}

type Server struct {
	cfg           config.Config
	log           *zap.Logger
	db            *gorm.DB
	phaseSvc      *phaseservice.Service
	quoteSvc      *quoteservice.Service
	templateSvc   paymenttemplatedomain.Service
	allocationSvc allocationdomain.Service
	scheduleSvc   scheduledomain.Service
	ledgerSvc     ledgerdomain.Service
	limiter       *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:           p.Config,
		log:           p.Log.Named("server"),
		db:            p.DB,
		phaseSvc:      p.PhaseSvc,
		quoteSvc:      p.QuoteSvc,
		templateSvc:   p.TemplateSvc,
		allocationSvc: p.AllocationSvc,
		scheduleSvc:   p.ScheduleSvc,
		ledgerSvc:     p.LedgerSvc,
		limiter:       newRateLimiter(p.Config.WriteRateLimit, time.Minute),
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Log:       s.log,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.POST("/phases", s.rateLimited, s.CreatePhase)
	api.GET("/phases", s.ListPhases)

	api.POST("/quotes", s.rateLimited, s.CreateQuote)
	api.GET("/quotes", s.ListQuotes)
	api.GET("/quotes/:quote_id", quoteScoped, s.GetQuote)

	api.POST("/payment-templates", s.rateLimited, s.CreateTemplate)
	api.GET("/payment-templates", s.ListTemplates)
	api.GET("/payment-templates/:template_id", s.GetTemplate)
	api.DELETE("/payment-templates/:template_id", s.rateLimited, s.DeleteTemplate)
	api.POST("/quotes/:quote_id/terms/from-template", s.rateLimited, quoteScoped, s.ApplyTemplate)
	api.GET("/quotes/:quote_id/terms", quoteScoped, s.ListTerms)

	api.POST("/allocations/preview", s.PreviewAllocation)
	api.PUT("/quotes/:quote_id/allocation", s.rateLimited, quoteScoped, s.SaveAllocation)

	api.POST("/quotes/:quote_id/schedule", s.rateLimited, quoteScoped, s.GenerateSchedule)
	api.GET("/quotes/:quote_id/payments", quoteScoped, s.ListQuotePayments)

	api.POST("/payments/:payment_id/record", s.rateLimited, s.RecordPayment)
	api.GET("/payments/stats", s.PaymentStats)

	return r
}

func (s *Server) Healthz(c *gin.Context) {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) rateLimited(c *gin.Context) {
	if !s.limiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrRateLimited)
		return
	}
	c.Next()
}

// quoteScoped stamps the quote id from the path into the request context so
// downstream log lines and audit payloads can carry it.
func quoteScoped(c *gin.Context) {
	if quoteID := c.Param("quote_id"); quoteID != "" {
		c.Request = c.Request.WithContext(
			obscontext.WithQuoteID(c.Request.Context(), quoteID),
		)
	}
	c.Next()
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
