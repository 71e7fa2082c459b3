package usecase

import (
	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
)

// 割引後小計がしきい値以上なら送料無料
func resolveShippingCharge(s model.ShippingSetting, discountedSubtotal decimal.Decimal) decimal.Decimal {
	if s.FreeShippingThreshold.IsPositive() && discountedSubtotal.GreaterThanOrEqual(s.FreeShippingThreshold) {
		return decimal.Zero
	}
	return s.ShippingCharge.Round(2)
}
