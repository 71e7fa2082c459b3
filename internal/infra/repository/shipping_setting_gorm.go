package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type ShippingSettingGormRepository struct {
	db *gorm.DB
}

func NewShippingSettingGormRepository(db *gorm.DB) *ShippingSettingGormRepository {
	return &ShippingSettingGormRepository{db: db}
}

// 1行だけのはずなので先頭を返す。無ければゼロ値（送料なし扱い）
func (r *ShippingSettingGormRepository) Get(ctx context.Context) (model.ShippingSetting, error) {
	var s model.ShippingSetting
	err := r.db.WithContext(ctx).Order("id asc").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingSetting{}, nil
	}
	if err != nil {
		return model.ShippingSetting{}, err
	}
	return s, nil
}
