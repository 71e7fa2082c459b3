package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type PaymentConfigGormRepository struct {
	db *gorm.DB
}

func NewPaymentConfigGormRepository(db *gorm.DB) *PaymentConfigGormRepository {
	return &PaymentConfigGormRepository{db: db}
}

// ownerの設定→全体デフォルトの順で探す
func (r *PaymentConfigGormRepository) FindActive(ctx context.Context, gatewayName string, ownerID *int64) (model.PaymentConfig, error) {
	var cfg model.PaymentConfig

	if ownerID != nil {
		err := r.db.WithContext(ctx).
			Where("gateway_name = ? AND owner_id = ? AND is_active = ?", gatewayName, *ownerID, true).
			Order("id desc").
			First(&cfg).Error
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PaymentConfig{}, err
		}
	}

	err := r.db.WithContext(ctx).
		Where("gateway_name = ? AND owner_id IS NULL AND is_active = ?", gatewayName, true).
		Order("id desc").
		First(&cfg).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentConfig{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentConfig{}, err
	}
	return cfg, nil
}
