package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/repository"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	quoterepository "github.com/halion16/refit-management-sub000/internal/quote/repository"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
	schedulerepository "github.com/halion16/refit-management-sub000/internal/schedule/repository"
)

func pct(v float64) *float64 { return &v }

func setupTemplateTest(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&domain.PaymentTemplate{},
		&domain.TemplateTerm{},
		&quotedomain.Quote{},
		&scheduledomain.PaymentTerm{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := &Service{
		db:           db,
		log:          zap.NewNop(),
		genID:        node,
		clock:        clock.Fixed(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		repo:         repository.Provide(),
		quoteRepo:    quoterepository.Provide(),
		scheduleRepo: schedulerepository.Provide(),
	}
	return svc, db, node
}

func standardThirtySeventy() domain.CreateRequest {
	return domain.CreateRequest{
		Name:        "Standard 30-70",
		Description: "30% on order confirmation, balance on delivery",
		Terms: []domain.CreateTermRequest{
			{
				Description:  "Advance on order",
				Type:         scheduledomain.TermTypeAdvance,
				Percentage:   pct(30),
				TriggerEvent: scheduledomain.TriggerOrderConfirmation,
			},
			{
				Description:  "Balance on delivery",
				Type:         scheduledomain.TermTypeBalance,
				Percentage:   pct(70),
				TriggerEvent: scheduledomain.TriggerDelivery,
			},
		},
	}
}

func TestCreateAndGetTemplate(t *testing.T) {
	svc, _, _ := setupTemplateTest(t)

	created, err := svc.Create(context.Background(), standardThirtySeventy())
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	loaded, err := svc.GetByID(context.Background(), created.ID.String())
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if loaded.Name != "Standard 30-70" {
		t.Fatalf("expected name preserved, got %q", loaded.Name)
	}
	if len(loaded.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(loaded.Terms))
	}
	if loaded.Terms[0].SortOrder != 1 || loaded.Terms[1].SortOrder != 2 {
		t.Fatalf("expected sequential sort order, got %d %d", loaded.Terms[0].SortOrder, loaded.Terms[1].SortOrder)
	}
}

func TestCreateTemplateLenientAboutPercentageTotal(t *testing.T) {
	svc, _, _ := setupTemplateTest(t)

	// Templates are not validated against a 100% total; the engine emits
	// whatever the plan supplies.
	req := domain.CreateRequest{
		Name: "Partial coverage",
		Terms: []domain.CreateTermRequest{
			{Type: scheduledomain.TermTypeAdvance, Percentage: pct(40), TriggerEvent: scheduledomain.TriggerOrderConfirmation},
		},
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("expected lenient create, got %v", err)
	}
}

func TestApplyToQuoteCopiesTerms(t *testing.T) {
	svc, db, node := setupTemplateTest(t)

	created, err := svc.Create(context.Background(), standardThirtySeventy())
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	now := time.Now().UTC()
	quote := quotedomain.Quote{
		ID:          node.Generate(),
		ProjectID:   node.Generate(),
		Number:      "Q-1",
		TotalAmount: 5000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("insert quote: %v", err)
	}

	terms, err := svc.ApplyToQuote(context.Background(), domain.ApplyRequest{
		TemplateID: created.ID.String(),
		QuoteID:    quote.ID.String(),
	})
	if err != nil {
		t.Fatalf("apply template: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 copied terms, got %d", len(terms))
	}
	for _, term := range terms {
		if term.QuoteID != quote.ID {
			t.Fatalf("expected terms owned by quote, got %v", term.QuoteID)
		}
		if term.ID == created.ID {
			t.Fatalf("expected fresh term ids")
		}
	}
	if *terms[0].Percentage != 30 || *terms[1].Percentage != 70 {
		t.Fatalf("expected percentages [30 70], got [%v %v]", *terms[0].Percentage, *terms[1].Percentage)
	}

	var stored []scheduledomain.PaymentTerm
	if err := db.Where("quote_id = ?", quote.ID).Find(&stored).Error; err != nil {
		t.Fatalf("load stored terms: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 persisted terms, got %d", len(stored))
	}
}

func TestApplyToQuoteCarriesCustomDueDate(t *testing.T) {
	svc, db, node := setupTemplateTest(t)

	due := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Name: "Fixed-date balance",
		Terms: []domain.CreateTermRequest{
			{
				Description:  "Advance on order",
				Type:         scheduledomain.TermTypeAdvance,
				Percentage:   pct(30),
				TriggerEvent: scheduledomain.TriggerOrderConfirmation,
			},
			{
				Description:   "Balance on agreed date",
				Type:          scheduledomain.TermTypeBalance,
				Percentage:    pct(70),
				TriggerEvent:  scheduledomain.TriggerCustomDate,
				CustomDueDate: &due,
			},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	now := time.Now().UTC()
	quote := quotedomain.Quote{ID: node.Generate(), ProjectID: 1, Number: "Q-3", TotalAmount: 1000, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("insert quote: %v", err)
	}

	terms, err := svc.ApplyToQuote(context.Background(), domain.ApplyRequest{
		TemplateID: created.ID.String(),
		QuoteID:    quote.ID.String(),
	})
	if err != nil {
		t.Fatalf("apply template: %v", err)
	}
	if terms[1].CustomDueDate == nil || !terms[1].CustomDueDate.Equal(due) {
		t.Fatalf("expected custom due date %v copied to quote term, got %v", due, terms[1].CustomDueDate)
	}

	// A schedule generated from the copied terms must honor the date rather
	// than fall back to a provisional one.
	payments := scheduledomain.Generate(quote.TotalAmount, terms, scheduledomain.Milestones{}, now)
	if payments[1].DateProvisional {
		t.Fatalf("expected firm planned date for custom_date term")
	}
	if !payments[1].PlannedDate.Equal(due) {
		t.Fatalf("expected planned date %v, got %v", due, payments[1].PlannedDate)
	}
}

func TestCreateTemplateCustomDateValidation(t *testing.T) {
	svc, _, _ := setupTemplateTest(t)

	// custom_date without a date.
	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name: "Missing date",
		Terms: []domain.CreateTermRequest{
			{Type: scheduledomain.TermTypeBalance, Percentage: pct(100), TriggerEvent: scheduledomain.TriggerCustomDate},
		},
	})
	if err != domain.ErrInvalidCustomDate {
		t.Fatalf("expected invalid custom date, got %v", err)
	}

	// A date on a milestone-triggered term.
	due := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(context.Background(), domain.CreateRequest{
		Name: "Stray date",
		Terms: []domain.CreateTermRequest{
			{Type: scheduledomain.TermTypeBalance, Percentage: pct(100), TriggerEvent: scheduledomain.TriggerDelivery, CustomDueDate: &due},
		},
	})
	if err != domain.ErrInvalidCustomDate {
		t.Fatalf("expected invalid custom date, got %v", err)
	}
}

func TestApplyToQuoteUnknownTemplate(t *testing.T) {
	svc, db, node := setupTemplateTest(t)

	now := time.Now().UTC()
	quote := quotedomain.Quote{ID: node.Generate(), ProjectID: 1, Number: "Q-2", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("insert quote: %v", err)
	}

	_, err := svc.ApplyToQuote(context.Background(), domain.ApplyRequest{
		TemplateID: "424242",
		QuoteID:    quote.ID.String(),
	})
	if err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteTemplateRemovesTerms(t *testing.T) {
	svc, db, _ := setupTemplateTest(t)

	created, err := svc.Create(context.Background(), standardThirtySeventy())
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID.String()); err != nil {
		t.Fatalf("delete template: %v", err)
	}

	var termCount int64
	if err := db.Model(&domain.TemplateTerm{}).Where("template_id = ?", created.ID).Count(&termCount).Error; err != nil {
		t.Fatalf("count terms: %v", err)
	}
	if termCount != 0 {
		t.Fatalf("expected terms removed with template, got %d", termCount)
	}
}
