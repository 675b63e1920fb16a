package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

// PaymentTemplate is a named, reusable payment plan. Applying it to a quote
// copies its rows into quote-owned payment terms; the template itself never
// references a quote.
type PaymentTemplate struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsDefault   bool           `gorm:"not null;default:false" json:"is_default"`
	Terms       []TemplateTerm `gorm:"foreignKey:TemplateID" json:"terms"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentTemplate) TableName() string { return "payment_templates" }

// TemplateTerm is one row of a template's plan, shaped like a payment term
// without the owning quote.
type TemplateTerm struct {
	ID            snowflake.ID                `gorm:"primaryKey" json:"id"`
	TemplateID    snowflake.ID                `gorm:"not null;index" json:"template_id"`
	Description   string                      `gorm:"type:text" json:"description"`
	Type          scheduledomain.TermType     `gorm:"type:text;not null" json:"type"`
	Percentage    *float64                    `json:"percentage,omitempty"`
	FixedAmount   *float64                    `json:"fixed_amount,omitempty"`
	TriggerEvent  scheduledomain.TriggerEvent `gorm:"type:text;not null" json:"trigger_event"`
	CustomDueDate *time.Time                  `json:"custom_due_date,omitempty"`
	DueAfterDays  int                         `gorm:"not null;default:0" json:"due_after_days"`
	VATIncluded   bool                        `gorm:"not null;default:false" json:"vat_included"`
	SortOrder     int                         `gorm:"not null;default:0" json:"order"`
	IsActive      bool                        `gorm:"not null;default:true" json:"is_active"`
}

// TableName sets the database table name.
func (TemplateTerm) TableName() string { return "payment_template_terms" }

type CreateTermRequest struct {
	Description   string                      `json:"description"`
	Type          scheduledomain.TermType     `json:"type"`
	Percentage    *float64                    `json:"percentage,omitempty"`
	FixedAmount   *float64                    `json:"fixed_amount,omitempty"`
	TriggerEvent  scheduledomain.TriggerEvent `json:"trigger_event"`
	CustomDueDate *time.Time                  `json:"custom_due_date,omitempty"`
	DueAfterDays  int                         `json:"due_after_days"`
	VATIncluded   bool                        `json:"vat_included"`
	IsActive      *bool                       `json:"is_active,omitempty"`
}

type CreateRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	IsDefault   bool                `json:"is_default"`
	Terms       []CreateTermRequest `json:"terms"`
}

type ApplyRequest struct {
	TemplateID string `json:"template_id"`
	QuoteID    string `json:"-"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PaymentTemplate, error)
	List(ctx context.Context) ([]PaymentTemplate, error)
	GetByID(ctx context.Context, id string) (*PaymentTemplate, error)
	Delete(ctx context.Context, id string) error
	// ApplyToQuote seeds a quote's payment terms from the template rows.
	// The active terms of a covering template should sum to 100%, but the
	// engine stays lenient and copies whatever the template holds.
	ApplyToQuote(ctx context.Context, req ApplyRequest) ([]scheduledomain.PaymentTerm, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tmpl *PaymentTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentTemplate, error)
	List(ctx context.Context, db *gorm.DB) ([]PaymentTemplate, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidQuoteID    = errors.New("invalid_quote_id")
	ErrInvalidCustomDate = errors.New("invalid_custom_date")
	ErrQuoteNotFound     = errors.New("quote_not_found")
	ErrNotFound          = errors.New("not_found")
)
