package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/events"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	"github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	QuoteRepo quotedomain.Repository
	Recorder  *events.Recorder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	quoteRepo quotedomain.Repository
	recorder  *events.Recorder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("schedule.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		quoteRepo: p.QuoteRepo,
		recorder:  p.Recorder,
	}
}

// GenerateForQuote derives the planned schedule from the quote's active
// terms and persists it. Generation itself never fails; only unknown quote
// ids and storage errors surface to the caller.
func (s *Service) GenerateForQuote(ctx context.Context, req domain.GenerateRequest) ([]domain.Payment, error) {
	quoteID, err := domain.ParseID(req.QuoteID)
	if err != nil {
		return nil, domain.ErrInvalidQuoteID
	}
	quote, err := s.quoteRepo.FindByID(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrQuoteNotFound
	}

	terms, err := s.repo.ListTermsByQuote(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	payments := domain.Generate(quote.TotalAmount, terms, req.Milestones, now)
	for i := range payments {
		payments[i].ID = s.genID.Generate()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertPayments(ctx, tx, payments); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, events.Event{
			Type:    events.TypeScheduleGenerated,
			QuoteID: quoteID,
			Payload: map[string]any{
				"payment_count": len(payments),
				"quote_total":   quote.TotalAmount,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.Payments().SchedulesGenerated.Inc()
	s.log.Info("payment schedule generated",
		zap.String("quote_id", quoteID.String()),
		zap.Int("payments", len(payments)),
	)
	return payments, nil
}

func (s *Service) ListTerms(ctx context.Context, quoteID string) ([]domain.PaymentTerm, error) {
	id, err := domain.ParseID(quoteID)
	if err != nil {
		return nil, domain.ErrInvalidQuoteID
	}
	return s.repo.ListTermsByQuote(ctx, s.db, id)
}

func (s *Service) ListPayments(ctx context.Context, quoteID string) ([]domain.Payment, error) {
	id, err := domain.ParseID(quoteID)
	if err != nil {
		return nil, domain.ErrInvalidQuoteID
	}
	return s.repo.ListPaymentsByQuote(ctx, s.db, id)
}
