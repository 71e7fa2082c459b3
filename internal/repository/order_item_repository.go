package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 注文明細は決済時点のスナップショット。作成後は変更しない。
type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
