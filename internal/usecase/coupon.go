package usecase

import (
	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
)

var maxPercentDiscount = decimal.NewFromInt(90)

// クーポン割引額を算出する。
// PERCENTAGEはcappedフラグに関わらず90%で頭打ち。
// FIXEDは小計を超えない。戻り値は常に0以上・小数2桁。
func resolveCouponDiscount(c model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case model.CouponTypePercentage:
		percent := c.Value
		if percent.GreaterThan(maxPercentDiscount) {
			percent = maxPercentDiscount
		}
		discount = subtotal.Mul(percent).Div(oneHundred)
	case model.CouponTypeFixed:
		discount = c.Value
	default:
		return decimal.Zero
	}

	discount = discount.Round(2)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
