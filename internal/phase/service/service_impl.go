package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/cache"
	"github.com/halion16/refit-management-sub000/internal/phase/domain"
)

const directoryTTL = 30 * time.Second

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

// Service implements phase CRUD and the Directory lookup consumed by the
// allocation engine. Lookups are cached briefly since breakdown builds hit
// the directory once per selected phase.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache *cache.TTLCache[snowflake.ID, *domain.ProjectPhase]
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("phase.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: cache.NewTTLCache[snowflake.ID, *domain.ProjectPhase](),
	}
}

// ProvideDirectory exposes the service under the Directory interface.
func ProvideDirectory(s *Service) domain.Directory { return s }

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.ProjectPhase, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	projectID, err := domain.ParseID(req.ProjectID)
	if err != nil {
		return nil, domain.ErrInvalidProject
	}

	now := time.Now().UTC()
	phase := domain.ProjectPhase{
		ID:        s.genID.Generate(),
		ProjectID: projectID,
		Name:      name,
		Budget:    req.Budget,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &phase); err != nil {
		return nil, err
	}
	return &phase, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListRequest) ([]domain.ProjectPhase, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Lookup(ctx context.Context, id snowflake.ID) (*domain.ProjectPhase, error) {
	if phase, ok := s.cache.Get(id); ok {
		return phase, nil
	}
	phase, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if phase != nil {
		s.cache.Set(id, phase, directoryTTL)
	}
	return phase, nil
}
