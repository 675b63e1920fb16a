package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels applied to all payment metrics.
type Config struct {
	ServiceName string
	Environment string
}

// PaymentMetrics exposes the financial engine's operational gauges.
type PaymentMetrics struct {
	OverdueCount       prometheus.Gauge
	OverdueAmount      prometheus.Gauge
	PendingAmount      prometheus.Gauge
	PaymentsRecorded   prometheus.Counter
	SchedulesGenerated prometheus.Counter
	BreakdownsSaved    prometheus.Counter
}

var (
	paymentMetricsOnce sync.Once
	paymentMetrics     *PaymentMetrics
)

func Payments() *PaymentMetrics {
	return PaymentsWithConfig(Config{})
}

func PaymentsWithConfig(cfg Config) *PaymentMetrics {
	paymentMetricsOnce.Do(func() {
		paymentMetrics = newPaymentMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return paymentMetrics
}

func ResetPaymentMetricsForTest() {
	paymentMetricsOnce = sync.Once{}
	paymentMetrics = nil
}

func newPaymentMetrics(registerer prometheus.Registerer, cfg Config) *PaymentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "refit"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	overdueCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "refit_payments_overdue_total",
		Help:        "Number of pending payments past their planned date.",
		ConstLabels: constLabels,
	})
	overdueAmount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "refit_payments_overdue_amount",
		Help:        "Planned amount of pending payments past their planned date.",
		ConstLabels: constLabels,
	})
	pendingAmount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "refit_payments_pending_amount",
		Help:        "Planned amount of all pending payments.",
		ConstLabels: constLabels,
	})
	paymentsRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "refit_payments_recorded_total",
		Help:        "Total payments marked as paid through the ledger.",
		ConstLabels: constLabels,
	})
	schedulesGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "refit_schedules_generated_total",
		Help:        "Total payment schedules generated from quote terms.",
		ConstLabels: constLabels,
	})
	breakdownsSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "refit_breakdowns_saved_total",
		Help:        "Total phase breakdowns persisted on quotes.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		overdueCount,
		overdueAmount,
		pendingAmount,
		paymentsRecorded,
		schedulesGenerated,
		breakdownsSaved,
	)

	return &PaymentMetrics{
		OverdueCount:       overdueCount,
		OverdueAmount:      overdueAmount,
		PendingAmount:      pendingAmount,
		PaymentsRecorded:   paymentsRecorded,
		SchedulesGenerated: schedulesGenerated,
		BreakdownsSaved:    breakdownsSaved,
	}
}
