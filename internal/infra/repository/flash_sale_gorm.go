package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type FlashSaleGormRepository struct {
	db *gorm.DB
}

func NewFlashSaleGormRepository(db *gorm.DB) *FlashSaleGormRepository {
	return &FlashSaleGormRepository{db: db}
}

// atを含む時間窓のアクティブセールを1件。
// is_activeだけでなく時間窓もSQLで見る（旗が残ったままのセールを拾わない）
func (r *FlashSaleGormRepository) FindActiveForProduct(ctx context.Context, productID int64, at time.Time) (model.FlashSale, bool, error) {
	var sale model.FlashSale

	err := r.db.WithContext(ctx).
		Joins("join flash_sale_products on flash_sale_products.flash_sale_id = flash_sales.id").
		Where("flash_sale_products.product_id = ?", productID).
		Where("flash_sales.is_active = ?", true).
		Where("flash_sales.start_time <= ? AND flash_sales.end_time >= ?", at, at).
		Order("flash_sales.id desc").
		First(&sale).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.FlashSale{}, false, nil
	}
	if err != nil {
		return model.FlashSale{}, false, err
	}
	return sale, true, nil
}

// sold_countを加算。読んで足して書く、はしない
func (r *FlashSaleGormRepository) IncrementSoldCount(ctx context.Context, flashSaleID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.FlashSale{}).
		Where("id = ?", flashSaleID).
		Update("sold_count", gorm.Expr("sold_count + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
