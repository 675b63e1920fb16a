package domain

import (
	"time"

	"github.com/halion16/refit-management-sub000/internal/money"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

// IsOverdue reports whether a payment is pending past its planned date.
// Paid payments are never overdue, regardless of dates.
func IsOverdue(payment scheduledomain.Payment, asOf time.Time) bool {
	return payment.Status == scheduledomain.PaymentStatusPending &&
		payment.PlannedDate.Before(asOf)
}

// DeriveState projects the stored status plus amounts onto the closed state
// set. Callers switch exhaustively over the result instead of re-deriving
// overdue/partial rules at every site.
func DeriveState(payment scheduledomain.Payment, asOf time.Time) State {
	if payment.Status == scheduledomain.PaymentStatusPaid {
		if payment.PaidAmount > 0 && payment.PaidAmount < payment.PlannedAmount {
			return StatePartiallyPaid
		}
		return StatePaid
	}
	if IsOverdue(payment, asOf) {
		return StateOverdue
	}
	return StatePending
}

// Summarize aggregates a payment snapshot into ledger stats. Pure; the
// service layer supplies the snapshot and the clock reading.
func Summarize(payments []scheduledomain.Payment, asOf time.Time) Stats {
	var stats Stats
	for _, p := range payments {
		stats.TotalPlanned += p.PlannedAmount
		stats.TotalPaid += p.PaidAmount
		if p.Status == scheduledomain.PaymentStatusPending {
			stats.TotalPending += p.PlannedAmount
		}
		if IsOverdue(p, asOf) {
			stats.TotalOverdue += p.PlannedAmount
		}
	}
	stats.TotalPlanned = money.RoundCents(stats.TotalPlanned)
	stats.TotalPaid = money.RoundCents(stats.TotalPaid)
	stats.TotalPending = money.RoundCents(stats.TotalPending)
	stats.TotalOverdue = money.RoundCents(stats.TotalOverdue)
	if stats.TotalPlanned > 0 {
		stats.PaymentRate = stats.TotalPaid / stats.TotalPlanned * 100
	}
	return stats
}
