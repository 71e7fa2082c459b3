package repository

import (
	"context"

	"shop/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（WHERE stock_quantity >= qty の条件付きUPDATE）。
	// 台帳がトランザクション前の読み値に依存しないよう、減算後の在庫数を返す
	DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (newQty int64, ok bool, err error)

	// 在庫戻し（キャンセルなど）。加算後の在庫数を返す
	IncreaseStock(ctx context.Context, variantID int64, qty int64) (newQty int64, err error)

	// 台帳に追記
	CreateLog(ctx context.Context, log model.InventoryLog) error
}
