package domain

import (
	"context"
	"errors"
	"time"

	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

// State is the derived payment state. Storage only knows pending|paid;
// overdue and partially-paid are projections over the stored fields and the
// current time, so they can never go stale.
type State string

const (
	StatePending       State = "pending"
	StatePartiallyPaid State = "partially_paid"
	StatePaid          State = "paid"
	StateOverdue       State = "overdue"
)

// Stats aggregates planned versus paid amounts over a payment set.
type Stats struct {
	TotalPlanned float64 `json:"total_planned"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	TotalOverdue float64 `json:"total_overdue"`
	// PaymentRate is TotalPaid over TotalPlanned as a percentage, zero
	// when nothing is planned.
	PaymentRate float64 `json:"payment_rate"`
}

// RecordRequest marks a planned payment as paid.
type RecordRequest struct {
	PaymentID     string    `json:"-"`
	PaidAmount    float64   `json:"paid_amount"`
	PaymentDate   time.Time `json:"payment_date"`
	Method        string    `json:"method,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
}

type Service interface {
	// RecordPayment stores the received amount and date on a payment and
	// flips it to paid. Partial and overpayments are representable; the
	// ledger does not reject them.
	RecordPayment(ctx context.Context, req RecordRequest) (*scheduledomain.Payment, error)
	// Stats aggregates over all payments, or one quote's when quoteID is
	// non-empty.
	Stats(ctx context.Context, quoteID string) (*Stats, error)
}

var (
	ErrInvalidPaymentID = errors.New("invalid_payment_id")
	ErrPaymentNotFound  = errors.New("payment_not_found")
	ErrInvalidQuoteID   = errors.New("invalid_quote_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
