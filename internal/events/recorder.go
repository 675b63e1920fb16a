// Package events persists an audit trail of engine actions. Breakdowns and
// schedules are derived data; the trail records which inputs produced them.
package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
)

// Audit event types emitted by the engine.
const (
	TypeScheduleGenerated = "schedule.generated"
	TypeBreakdownSaved    = "breakdown.saved"
	TypePaymentRecorded   = "payment.recorded"
)

// Event describes an engine action to append to the audit trail.
type Event struct {
	Type    string
	QuoteID snowflake.ID
	Payload map[string]any
}

// AuditEvent is the persisted trail row.
type AuditEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Type      string            `gorm:"column:event_type;type:text;not null;index" json:"type"`
	QuoteID   snowflake.ID      `gorm:"not null;index" json:"quote_id"`
	Payload   datatypes.JSONMap `json:"payload"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (AuditEvent) TableName() string { return "audit_events" }

// Recorder appends audit events.
type Recorder struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewRecorder(db *gorm.DB, genID *snowflake.Node) *Recorder {
	return &Recorder{db: db, genID: genID}
}

// Record stores an event using the default database connection.
func (r *Recorder) Record(ctx context.Context, event Event) error {
	return r.record(ctx, r.db, event)
}

// RecordTx stores an event inside an existing transaction.
func (r *Recorder) RecordTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return r.record(ctx, tx, event)
}

func (r *Recorder) record(ctx context.Context, db *gorm.DB, event Event) error {
	if r == nil || db == nil || r.genID == nil {
		return errors.New("recorder_unavailable")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	row := AuditEvent{
		ID:        r.genID.Generate(),
		Type:      name,
		QuoteID:   event.QuoteID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(&row).Error
}
