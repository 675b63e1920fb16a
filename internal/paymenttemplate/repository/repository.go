package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
)

type repository struct{}

// Provide constructs the gorm-backed template repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, tmpl *domain.PaymentTemplate) error {
	return db.WithContext(ctx).Create(tmpl).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentTemplate, error) {
	var tmpl domain.PaymentTemplate
	err := db.WithContext(ctx).
		Preload("Terms", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]domain.PaymentTemplate, error) {
	var templates []domain.PaymentTemplate
	err := db.WithContext(ctx).
		Preload("Terms", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&domain.TemplateTerm{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.PaymentTemplate{}).Error
	})
}
