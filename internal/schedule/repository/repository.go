package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

type repository struct{}

// Provide constructs the gorm-backed schedule repository. All reads are
// keyed by quote id; nothing loads the global payment collection except the
// overdue scanner.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) InsertTerms(ctx context.Context, db *gorm.DB, terms []domain.PaymentTerm) error {
	if len(terms) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&terms).Error
}

func (r *repository) ListTermsByQuote(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]domain.PaymentTerm, error) {
	var terms []domain.PaymentTerm
	err := db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("sort_order ASC, id ASC").
		Find(&terms).Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *repository) InsertPayments(ctx context.Context, db *gorm.DB, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&payments).Error
}

func (r *repository) FindPayment(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) UpdatePayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Save(payment).Error
}

func (r *repository) ListPaymentsByQuote(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListPayments(ctx context.Context, db *gorm.DB) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
