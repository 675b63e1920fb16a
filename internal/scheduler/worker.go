// Package scheduler runs the background overdue watch: it periodically scans
// pending payments, flags the ones whose planned date has passed, and keeps
// the payment gauges current.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/clock"
	ledgerdomain "github.com/halion16/refit-management-sub000/internal/ledger/domain"
	"github.com/halion16/refit-management-sub000/internal/money"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	ScheduleRepo scheduledomain.Repository
	Config       Config `optional:"true"`
}

type Worker struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	scheduleRepo scheduledomain.Repository
	cfg          Config

	// knownOverdue remembers which payments were already reported so each
	// transition to overdue is logged once per process.
	knownOverdue map[snowflake.ID]bool
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	return &Worker{
		db:           p.DB,
		log:          p.Log.Named("scheduler.overdue"),
		clock:        p.Clock,
		scheduleRepo: p.ScheduleRepo,
		cfg:          cfg,
		knownOverdue: make(map[snowflake.ID]bool),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Warn("overdue scan failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.ScanTimeout)
	defer cancel()

	_, err := w.scan(ctx)
	return err
}

// scan classifies every stored payment as of the current clock reading and
// reports the aggregate pending/overdue exposure. It returns the number of
// payments currently overdue.
func (w *Worker) scan(ctx context.Context) (int, error) {
	if w.db == nil || w.scheduleRepo == nil {
		return 0, errors.New("overdue_worker_unavailable")
	}

	payments, err := w.scheduleRepo.ListPayments(ctx, w.db)
	if err != nil {
		return 0, err
	}

	now := w.clock.Now()
	overdueCount := 0
	var overdueAmount, pendingAmount float64
	seen := make(map[snowflake.ID]bool, len(payments))

	for _, payment := range payments {
		if payment.Status == scheduledomain.PaymentStatusPending {
			pendingAmount += payment.PlannedAmount
		}
		if !ledgerdomain.IsOverdue(payment, now) {
			continue
		}
		overdueCount++
		overdueAmount += payment.PlannedAmount
		seen[payment.ID] = true
		if !w.knownOverdue[payment.ID] {
			w.log.Info("payment became overdue",
				zap.String("payment_id", payment.ID.String()),
				zap.String("quote_id", payment.QuoteID.String()),
				zap.Float64("planned_amount", payment.PlannedAmount),
				zap.Time("planned_date", payment.PlannedDate),
			)
		}
	}
	w.knownOverdue = seen

	m := metrics.Payments()
	m.OverdueCount.Set(float64(overdueCount))
	m.OverdueAmount.Set(money.RoundCents(overdueAmount))
	m.PendingAmount.Set(money.RoundCents(pendingAmount))

	return overdueCount, nil
}
