package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/quote/domain"
)

type repository struct{}

// Provide constructs the gorm-backed quote repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Create(quote).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Save(quote).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, projectID *snowflake.ID) ([]domain.Quote, error) {
	query := db.WithContext(ctx).Model(&domain.Quote{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var quotes []domain.Quote
	if err := query.Order("created_at ASC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}
