package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type FlashSaleRepository interface {
	// atを含む時間窓のアクティブセールを1件返す（無ければfalse）
	FindActiveForProduct(ctx context.Context, productID int64, at time.Time) (model.FlashSale, bool, error)

	// sold_countをSQL式で加算（読み書き分離しない）
	IncrementSoldCount(ctx context.Context, flashSaleID int64, qty int64) error
}
