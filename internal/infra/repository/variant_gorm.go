package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type VariantGormRepository struct {
	db *gorm.DB
}

func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

// 販売判定用。スラブは両スコープともmin_qty降順で先頭一致が正解になる順に積む
func (r *VariantGormRepository) FindForSale(ctx context.Context, variantID int64) (model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty desc")
		}).
		Preload("Product").
		Preload("Product.Slabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty desc")
		}).
		Where("id = ?", variantID).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Variant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Variant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) FindByID(ctx context.Context, variantID int64) (model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).Where("id = ?", variantID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Variant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Variant{}, err
	}
	return v, nil
}
