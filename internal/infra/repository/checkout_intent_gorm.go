package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type CheckoutIntentGormRepository struct {
	db *gorm.DB
}

func NewCheckoutIntentGormRepository(db *gorm.DB) *CheckoutIntentGormRepository {
	return &CheckoutIntentGormRepository{db: db}
}

func (r *CheckoutIntentGormRepository) Create(ctx context.Context, intent model.CheckoutIntent) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&intent).Error; err != nil {
		return 0, err
	}
	return intent.ID, nil
}

func (r *CheckoutIntentGormRepository) FindByRef(ctx context.Context, intentRef string) (model.CheckoutIntent, bool, error) {
	var in model.CheckoutIntent
	err := r.db.WithContext(ctx).Where("intent_ref = ?", intentRef).First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CheckoutIntent{}, false, nil
	}
	if err != nil {
		return model.CheckoutIntent{}, false, err
	}
	return in, true, nil
}
