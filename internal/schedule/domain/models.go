package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// TermType classifies a payment term within a plan.
type TermType string

const (
	TermTypeAdvance    TermType = "advance"
	TermTypeProgress   TermType = "progress"
	TermTypeBalance    TermType = "balance"
	TermTypeCompletion TermType = "completion"
)

// TriggerEvent names the business milestone a term's due date derives from.
type TriggerEvent string

const (
	TriggerOrderConfirmation    TriggerEvent = "order_confirmation"
	TriggerDelivery             TriggerEvent = "delivery"
	TriggerInstallationStart    TriggerEvent = "installation_start"
	TriggerInstallationComplete TriggerEvent = "installation_complete"
	TriggerApproval             TriggerEvent = "approval"
	TriggerCustomDate           TriggerEvent = "custom_date"
)

// PaymentStatus is the stored payment state. Overdue and partially-paid are
// derived projections, never stored; see the ledger package.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentTerm is one line of a quote's payment plan. Exactly one of
// Percentage or FixedAmount is meaningful; when both are set, Percentage
// takes precedence.
type PaymentTerm struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	QuoteID       snowflake.ID `gorm:"not null;index" json:"quote_id"`
	Description   string       `gorm:"type:text" json:"description"`
	Type          TermType     `gorm:"type:text;not null" json:"type"`
	Percentage    *float64     `json:"percentage,omitempty"`
	FixedAmount   *float64     `json:"fixed_amount,omitempty"`
	TriggerEvent  TriggerEvent `gorm:"type:text;not null" json:"trigger_event"`
	CustomDueDate *time.Time   `json:"custom_due_date,omitempty"`
	DueAfterDays  int          `gorm:"not null;default:0" json:"due_after_days"`
	VATIncluded   bool         `gorm:"not null;default:false" json:"vat_included"`
	SortOrder     int          `gorm:"not null;default:0" json:"order"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentTerm) TableName() string { return "payment_terms" }

// Payment is one emitted installment of a quote's schedule.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	QuoteID       snowflake.ID  `gorm:"not null;index" json:"quote_id"`
	PaymentTermID snowflake.ID  `gorm:"not null;index" json:"payment_term_id"`
	PlannedAmount float64       `gorm:"not null;default:0" json:"planned_amount"`
	PaidAmount    float64       `gorm:"not null;default:0" json:"paid_amount"`
	PlannedDate   time.Time     `gorm:"not null" json:"planned_date"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	Status        PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	// DateProvisional marks payments whose planned date fell back to the
	// generation time because the triggering milestone was not known yet.
	DateProvisional bool      `gorm:"not null;default:false" json:"date_provisional"`
	Method          string    `gorm:"type:text" json:"method,omitempty"`
	Reference       string    `gorm:"type:text" json:"reference,omitempty"`
	InvoiceNumber   string    `gorm:"type:text" json:"invoice_number,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// Milestones carries the project dates payment terms can trigger on. Any
// missing date degrades to the generation time rather than failing.
type Milestones struct {
	OrderDate                *time.Time `json:"order_date,omitempty"`
	DeliveryDate             *time.Time `json:"delivery_date,omitempty"`
	InstallationStartDate    *time.Time `json:"installation_start_date,omitempty"`
	InstallationCompleteDate *time.Time `json:"installation_complete_date,omitempty"`
	ApprovalDate             *time.Time `json:"approval_date,omitempty"`
}

type GenerateRequest struct {
	QuoteID    string     `json:"quote_id"`
	Milestones Milestones `json:"milestones"`
}

type Service interface {
	// GenerateForQuote builds and persists the planned schedule for a
	// quote from its active payment terms.
	GenerateForQuote(ctx context.Context, req GenerateRequest) ([]Payment, error)
	ListTerms(ctx context.Context, quoteID string) ([]PaymentTerm, error)
	ListPayments(ctx context.Context, quoteID string) ([]Payment, error)
}

type Repository interface {
	InsertTerms(ctx context.Context, db *gorm.DB, terms []PaymentTerm) error
	ListTermsByQuote(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]PaymentTerm, error)
	InsertPayments(ctx context.Context, db *gorm.DB, payments []Payment) error
	FindPayment(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	UpdatePayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListPaymentsByQuote(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]Payment, error)
	ListPayments(ctx context.Context, db *gorm.DB) ([]Payment, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidQuoteID   = errors.New("invalid_quote_id")
	ErrQuoteNotFound    = errors.New("quote_not_found")
	ErrInvalidPaymentID = errors.New("invalid_payment_id")
	ErrPaymentNotFound  = errors.New("payment_not_found")
)
