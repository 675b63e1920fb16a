package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/clock"
	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	QuoteRepo    quotedomain.Repository
	ScheduleRepo scheduledomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	quoteRepo    quotedomain.Repository
	scheduleRepo scheduledomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("paymenttemplate.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		quoteRepo:    p.QuoteRepo,
		scheduleRepo: p.ScheduleRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.PaymentTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	tmpl := domain.PaymentTemplate{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, term := range req.Terms {
		// A custom_date row must carry its date, and the date only makes
		// sense on a custom_date row.
		if (term.TriggerEvent == scheduledomain.TriggerCustomDate) != (term.CustomDueDate != nil) {
			return nil, domain.ErrInvalidCustomDate
		}
		active := true
		if term.IsActive != nil {
			active = *term.IsActive
		}
		tmpl.Terms = append(tmpl.Terms, domain.TemplateTerm{
			ID:            s.genID.Generate(),
			TemplateID:    tmpl.ID,
			Description:   strings.TrimSpace(term.Description),
			Type:          term.Type,
			Percentage:    term.Percentage,
			FixedAmount:   term.FixedAmount,
			TriggerEvent:  term.TriggerEvent,
			CustomDueDate: term.CustomDueDate,
			DueAfterDays:  term.DueAfterDays,
			VATIncluded:   term.VATIncluded,
			SortOrder:     i + 1,
			IsActive:      active,
		})
	}

	if err := s.repo.Insert(ctx, s.db, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *Service) List(ctx context.Context) ([]domain.PaymentTemplate, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.PaymentTemplate, error) {
	templateID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	tmpl, err := s.repo.FindByID(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	return tmpl, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	templateID, err := domain.ParseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	return s.repo.Delete(ctx, s.db, templateID)
}

// ApplyToQuote copies the template rows into payment terms owned by the
// quote. Rows are copied verbatim, active or not, so the quote editor shows
// the same plan the template defined.
func (s *Service) ApplyToQuote(ctx context.Context, req domain.ApplyRequest) ([]scheduledomain.PaymentTerm, error) {
	templateID, err := domain.ParseID(req.TemplateID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	quoteID, err := quotedomain.ParseID(req.QuoteID)
	if err != nil {
		return nil, domain.ErrInvalidQuoteID
	}

	tmpl, err := s.repo.FindByID(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	quote, err := s.quoteRepo.FindByID(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrQuoteNotFound
	}

	now := s.clock.Now()
	terms := make([]scheduledomain.PaymentTerm, 0, len(tmpl.Terms))
	for _, row := range tmpl.Terms {
		terms = append(terms, scheduledomain.PaymentTerm{
			ID:            s.genID.Generate(),
			QuoteID:       quoteID,
			Description:   row.Description,
			Type:          row.Type,
			Percentage:    row.Percentage,
			FixedAmount:   row.FixedAmount,
			TriggerEvent:  row.TriggerEvent,
			CustomDueDate: row.CustomDueDate,
			DueAfterDays:  row.DueAfterDays,
			VATIncluded:   row.VATIncluded,
			SortOrder:     row.SortOrder,
			IsActive:      row.IsActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.scheduleRepo.InsertTerms(ctx, s.db, terms); err != nil {
		return nil, err
	}

	s.log.Info("payment template applied",
		zap.String("template_id", templateID.String()),
		zap.String("quote_id", quoteID.String()),
		zap.Int("terms", len(terms)),
	)
	return terms, nil
}
