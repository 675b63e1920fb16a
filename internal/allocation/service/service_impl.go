package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	allocationdomain "github.com/halion16/refit-management-sub000/internal/allocation/domain"
	"github.com/halion16/refit-management-sub000/internal/events"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	phasedomain "github.com/halion16/refit-management-sub000/internal/phase/domain"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	QuoteRepo quotedomain.Repository
	Directory phasedomain.Directory
	Recorder  *events.Recorder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	quoteRepo quotedomain.Repository
	directory phasedomain.Directory
	recorder  *events.Recorder
}

func NewService(p Params) allocationdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("allocation.service"),
		quoteRepo: p.QuoteRepo,
		directory: p.Directory,
		recorder:  p.Recorder,
	}
}

func (s *Service) Preview(ctx context.Context, req allocationdomain.PreviewRequest) (*allocationdomain.PreviewResponse, error) {
	alloc, order, err := buildAllocator(req.PhaseIDs, req.Percentages)
	if err != nil {
		return nil, err
	}
	if req.Normalize {
		alloc.Normalize()
	}

	out := make([]allocationdomain.PhasePercentage, 0, len(order))
	for _, id := range order {
		out = append(out, allocationdomain.PhasePercentage{
			PhaseID:    id.String(),
			Percentage: alloc.Percentage(id),
		})
	}
	return &allocationdomain.PreviewResponse{
		Percentages: out,
		Total:       alloc.TotalPercentage(),
	}, nil
}

// Save validates the allocation gate, snapshots phase names through the
// directory and persists the breakdown on the quote. Validation failures
// surface before any write.
func (s *Service) Save(ctx context.Context, req allocationdomain.SaveRequest) (*quotedomain.Quote, error) {
	quoteID, err := quotedomain.ParseID(req.QuoteID)
	if err != nil {
		return nil, quotedomain.ErrInvalidID
	}
	quote, err := s.quoteRepo.FindByID(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, quotedomain.ErrNotFound
	}

	alloc, order, err := buildAllocator(nil, req.Percentages)
	if err != nil {
		return nil, err
	}
	if err := alloc.Validate(); err != nil {
		return nil, err
	}

	breakdown := alloc.BuildBreakdown(quote.TotalAmount, s.lookupName(ctx))

	quote.PhaseIDs = datatypes.NewJSONSlice(order)
	quote.PhaseBreakdown = datatypes.NewJSONSlice(breakdown)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.quoteRepo.Update(ctx, tx, quote); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, events.Event{
			Type:    events.TypeBreakdownSaved,
			QuoteID: quote.ID,
			Payload: map[string]any{
				"phase_count": len(order),
				"quote_total": quote.TotalAmount,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.Payments().BreakdownsSaved.Inc()
	s.log.Info("phase breakdown saved",
		zap.String("quote_id", quote.ID.String()),
		zap.Int("phases", len(order)),
	)
	return quote, nil
}

// lookupName adapts the phase directory into the allocator's pure lookup.
// Directory errors degrade to the sentinel label; the breakdown must stay
// producible.
func (s *Service) lookupName(ctx context.Context) allocationdomain.PhaseNameFunc {
	return func(id snowflake.ID) (string, bool) {
		phase, err := s.directory.Lookup(ctx, id)
		if err != nil {
			s.log.Warn("phase directory lookup failed", zap.String("phase_id", id.String()), zap.Error(err))
			return "", false
		}
		if phase == nil {
			return "", false
		}
		return phase.Name, true
	}
}

func buildAllocator(phaseIDs []string, percentages []allocationdomain.PhasePercentage) (*allocationdomain.Allocator, []snowflake.ID, error) {
	alloc := allocationdomain.NewAllocator()

	if len(percentages) > 0 {
		order := make([]snowflake.ID, 0, len(percentages))
		for _, p := range percentages {
			id, err := phasedomain.ParseID(p.PhaseID)
			if err != nil {
				return nil, nil, phasedomain.ErrInvalidID
			}
			order = append(order, id)
		}
		alloc.SetSelection(order)
		for i, p := range percentages {
			alloc.SetPercentage(order[i], p.Percentage)
		}
		return alloc, order, nil
	}

	order := make([]snowflake.ID, 0, len(phaseIDs))
	for _, raw := range phaseIDs {
		id, err := phasedomain.ParseID(raw)
		if err != nil {
			return nil, nil, phasedomain.ErrInvalidID
		}
		order = append(order, id)
	}
	alloc.SetSelection(order)
	return alloc, order, nil
}
