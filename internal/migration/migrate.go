// Package migration keeps the database schema in step with the gorm models.
package migration

import (
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/events"
	paymenttemplatedomain "github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	phasedomain "github.com/halion16/refit-management-sub000/internal/phase/domain"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

// Run applies schema migrations for every persisted model.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&phasedomain.ProjectPhase{},
		&quotedomain.Quote{},
		&paymenttemplatedomain.PaymentTemplate{},
		&paymenttemplatedomain.TemplateTerm{},
		&scheduledomain.PaymentTerm{},
		&scheduledomain.Payment{},
		&events.AuditEvent{},
	)
}
