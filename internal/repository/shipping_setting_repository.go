package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ShippingSettingRepository interface {
	// Get は送料ポリシーを1件返す。行が無ければゼロ値
	// （無料配送なし・送料0）を返す。
	Get(ctx context.Context) (model.ShippingSetting, error)
}
