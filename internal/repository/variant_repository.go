package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type VariantRepository interface {
	// FindForSale は販売判定に必要なものを全部ひいて返す。
	// （商品・バリアント両スコープのスラブはmin_qty降順でプリロード済み）
	FindForSale(ctx context.Context, variantID int64) (model.Variant, error)

	FindByID(ctx context.Context, variantID int64) (model.Variant, error)
}
