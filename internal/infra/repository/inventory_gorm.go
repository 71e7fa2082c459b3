package repository

import (
	"context"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。
// 同時決済が同じバリアントを取り合っても0未満にはならない。
// RETURNINGで更新後の値を取り、台帳の前後値を行ロック下の実値から導けるようにする。
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (int64, bool, error) {
	var newQty int64
	res := r.db.WithContext(ctx).Raw(
		`UPDATE variants
		 SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock_quantity >= ?
		 RETURNING stock_quantity`,
		qty, variantID, qty,
	).Scan(&newQty)

	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return newQty, true, nil
}

// 在庫戻し（キャンセル）
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, variantID int64, qty int64) (int64, error) {
	var newQty int64
	res := r.db.WithContext(ctx).Raw(
		`UPDATE variants
		 SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING stock_quantity`,
		qty, variantID,
	).Scan(&newQty)

	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, repo.ErrNotFound
	}
	return newQty, nil
}

// 台帳に追記
func (r *InventoryGormRepository) CreateLog(ctx context.Context, log model.InventoryLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}
