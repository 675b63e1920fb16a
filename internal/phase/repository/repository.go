package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/phase/domain"
)

type repository struct{}

// Provide constructs the gorm-backed phase repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, phase *domain.ProjectPhase) error {
	return db.WithContext(ctx).Create(phase).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ProjectPhase, error) {
	var phase domain.ProjectPhase
	err := db.WithContext(ctx).Where("id = ?", id).First(&phase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &phase, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.ProjectPhase, error) {
	query := db.WithContext(ctx).Model(&domain.ProjectPhase{})
	if filter.ProjectID != "" {
		projectID, err := domain.ParseID(filter.ProjectID)
		if err != nil {
			return nil, domain.ErrInvalidProject
		}
		query = query.Where("project_id = ?", projectID)
	}

	var phases []domain.ProjectPhase
	if err := query.Order("created_at ASC").Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}
