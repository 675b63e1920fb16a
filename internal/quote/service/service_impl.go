package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/money"
	"github.com/halion16/refit-management-sub000/internal/quote/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("quote.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Quote, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, domain.ErrInvalidNumber
	}
	projectID, err := domain.ParseID(req.ProjectID)
	if err != nil {
		return nil, domain.ErrInvalidProject
	}
	if req.TotalAmount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	quote := domain.Quote{
		ID:          s.genID.Generate(),
		ProjectID:   projectID,
		Number:      number,
		TotalAmount: money.RoundCents(req.TotalAmount),
		VATRate:     req.VATRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	quoteID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	quote, err := s.repo.FindByID(ctx, s.db, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

func (s *Service) List(ctx context.Context, projectID string) ([]domain.Quote, error) {
	var filter *snowflake.ID
	if strings.TrimSpace(projectID) != "" {
		id, err := domain.ParseID(projectID)
		if err != nil {
			return nil, domain.ErrInvalidProject
		}
		filter = &id
	}
	return s.repo.List(ctx, s.db, filter)
}
