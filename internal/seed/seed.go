// Package seed installs the built-in payment templates on startup so a fresh
// database has working plans to apply to quotes.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	paymenttemplatedomain "github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

func pct(v float64) *float64 { return &v }

type templateSpec struct {
	name        string
	description string
	terms       []paymenttemplatedomain.TemplateTerm
}

func defaultTemplates() []templateSpec {
	return []templateSpec{
		{
			name:        "Standard 30/70",
			description: "30% advance on order confirmation, balance on delivery",
			terms: []paymenttemplatedomain.TemplateTerm{
				{
					Description:  "Advance on order",
					Type:         scheduledomain.TermTypeAdvance,
					Percentage:   pct(30),
					TriggerEvent: scheduledomain.TriggerOrderConfirmation,
					SortOrder:    1,
					IsActive:     true,
				},
				{
					Description:  "Balance on delivery",
					Type:         scheduledomain.TermTypeBalance,
					Percentage:   pct(70),
					TriggerEvent: scheduledomain.TriggerDelivery,
					DueAfterDays: 30,
					SortOrder:    2,
					IsActive:     true,
				},
			},
		},
		{
			name:        "Thirds 30/40/30",
			description: "Advance, installation milestone, final balance",
			terms: []paymenttemplatedomain.TemplateTerm{
				{
					Description:  "Advance on order",
					Type:         scheduledomain.TermTypeAdvance,
					Percentage:   pct(30),
					TriggerEvent: scheduledomain.TriggerOrderConfirmation,
					SortOrder:    1,
					IsActive:     true,
				},
				{
					Description:  "On installation start",
					Type:         scheduledomain.TermTypeProgress,
					Percentage:   pct(40),
					TriggerEvent: scheduledomain.TriggerInstallationStart,
					SortOrder:    2,
					IsActive:     true,
				},
				{
					Description:  "Balance on completion",
					Type:         scheduledomain.TermTypeBalance,
					Percentage:   pct(30),
					TriggerEvent: scheduledomain.TriggerInstallationComplete,
					DueAfterDays: 15,
					SortOrder:    3,
					IsActive:     true,
				},
			},
		},
	}
}

// EnsureDefaultTemplates seeds the built-in payment templates. Templates are
// matched by name, so reruns are no-ops and operator edits survive restarts.
func EnsureDefaultTemplates(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range defaultTemplates() {
			if err := ensureTemplateTx(ctx, tx, node, spec); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureTemplateTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, spec templateSpec) error {
	var existing paymenttemplatedomain.PaymentTemplate
	err := tx.WithContext(ctx).Where("name = ?", spec.name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	tmpl := paymenttemplatedomain.PaymentTemplate{
		ID:          node.Generate(),
		Name:        spec.name,
		Description: spec.description,
		IsDefault:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, term := range spec.terms {
		term.ID = node.Generate()
		term.TemplateID = tmpl.ID
		tmpl.Terms = append(tmpl.Terms, term)
	}
	return tx.WithContext(ctx).Create(&tmpl).Error
}
