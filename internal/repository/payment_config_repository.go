package repository

import (
	"context"

	"shop/internal/domain/model"
)

type PaymentConfigRepository interface {
	// FindActive はownerの設定を優先し、無ければ全体デフォルト
	// （owner_id IS NULL）にフォールバックする。どちらも無ければErrNotFound。
	FindActive(ctx context.Context, gatewayName string, ownerID *int64) (model.PaymentConfig, error)
}
