package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quote is a contractor quote attached to a renovation project. The
// allocation engine persists its derived phase breakdown here; the payment
// schedule and ledger reference quotes by id only.
type Quote struct {
	ID             snowflake.ID                             `gorm:"primaryKey" json:"id"`
	ProjectID      snowflake.ID                             `gorm:"not null;index" json:"project_id"`
	Number         string                                   `gorm:"type:text;not null" json:"number"`
	TotalAmount    float64                                  `gorm:"not null;default:0" json:"total_amount"`
	VATRate        float64                                  `gorm:"not null;default:0" json:"vat_rate"`
	PhaseIDs       datatypes.JSONSlice[snowflake.ID]        `json:"phase_ids"`
	PhaseBreakdown datatypes.JSONSlice[PhaseBreakdownEntry] `json:"phase_breakdown"`
	CreatedAt      time.Time                                `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                                `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

// PhaseBreakdownEntry is the persisted share of a quote's total assigned to
// one project phase. PhaseName is a snapshot taken at allocation time; the
// referenced phase is not owned by the quote.
type PhaseBreakdownEntry struct {
	PhaseID   snowflake.ID    `json:"phase_id"`
	PhaseName string          `json:"phase_name"`
	Subtotal  float64         `json:"subtotal"`
	Items     []BreakdownItem `json:"items"`
	Notes     string          `json:"notes,omitempty"`
}

// BreakdownItem is the synthetic line item recording which percentage
// produced a breakdown entry, kept for audit traceability.
type BreakdownItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type CreateRequest struct {
	ProjectID   string  `json:"project_id"`
	Number      string  `json:"number"`
	TotalAmount float64 `json:"total_amount"`
	VATRate     float64 `json:"vat_rate"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, quote *Quote) error
	Update(ctx context.Context, db *gorm.DB, quote *Quote) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quote, error)
	List(ctx context.Context, db *gorm.DB, projectID *snowflake.ID) ([]Quote, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidNumber  = errors.New("invalid_number")
	ErrInvalidProject = errors.New("invalid_project")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrNotFound       = errors.New("not_found")
)
