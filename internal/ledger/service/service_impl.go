package service

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/events"
	ledgerdomain "github.com/halion16/refit-management-sub000/internal/ledger/domain"
	"github.com/halion16/refit-management-sub000/internal/money"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     scheduledomain.Repository
	Recorder *events.Recorder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     scheduledomain.Repository
	recorder *events.Recorder
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ledger.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		recorder: p.Recorder,
	}
}

func (s *Service) RecordPayment(ctx context.Context, req ledgerdomain.RecordRequest) (*scheduledomain.Payment, error) {
	paymentID, err := scheduledomain.ParseID(req.PaymentID)
	if err != nil {
		return nil, ledgerdomain.ErrInvalidPaymentID
	}
	if req.PaidAmount < 0 {
		return nil, ledgerdomain.ErrInvalidAmount
	}

	payment, err := s.repo.FindPayment(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ledgerdomain.ErrPaymentNotFound
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.clock.Now()
	}

	payment.Status = scheduledomain.PaymentStatusPaid
	payment.PaidAmount = money.RoundCents(req.PaidAmount)
	payment.PaymentDate = &paymentDate
	payment.Method = strings.TrimSpace(req.Method)
	payment.Reference = strings.TrimSpace(req.Reference)
	payment.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)
	payment.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdatePayment(ctx, tx, payment); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, events.Event{
			Type:    events.TypePaymentRecorded,
			QuoteID: payment.QuoteID,
			Payload: map[string]any{
				"payment_id":     payment.ID.String(),
				"planned_amount": payment.PlannedAmount,
				"paid_amount":    payment.PaidAmount,
				"state":          string(ledgerdomain.DeriveState(*payment, s.clock.Now())),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.Payments().PaymentsRecorded.Inc()
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("quote_id", payment.QuoteID.String()),
		zap.Float64("paid_amount", payment.PaidAmount),
	)
	return payment, nil
}

func (s *Service) Stats(ctx context.Context, quoteID string) (*ledgerdomain.Stats, error) {
	var payments []scheduledomain.Payment
	var err error
	if strings.TrimSpace(quoteID) == "" {
		payments, err = s.repo.ListPayments(ctx, s.db)
	} else {
		id, parseErr := scheduledomain.ParseID(quoteID)
		if parseErr != nil {
			return nil, ledgerdomain.ErrInvalidQuoteID
		}
		payments, err = s.repo.ListPaymentsByQuote(ctx, s.db, id)
	}
	if err != nil {
		return nil, err
	}

	stats := ledgerdomain.Summarize(payments, s.clock.Now())
	return &stats, nil
}
