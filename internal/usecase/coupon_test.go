package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop/internal/domain/model"
)

func Test_resolveCouponDiscount_パーセントは90で頭打ち(t *testing.T) {
	subtotal := dec("1000.00")

	//capped付き95% → 90%
	c := model.Coupon{Type: model.CouponTypePercentage, Value: dec("95"), Capped: true}
	assert.True(t, dec("900.00").Equal(resolveCouponDiscount(c, subtotal)))

	//cappedなしでも90超過は90に切られる
	c = model.Coupon{Type: model.CouponTypePercentage, Value: dec("120")}
	assert.True(t, dec("900.00").Equal(resolveCouponDiscount(c, subtotal)))

	//通常のパーセント
	c = model.Coupon{Type: model.CouponTypePercentage, Value: dec("15")}
	assert.True(t, dec("150.00").Equal(resolveCouponDiscount(c, subtotal)))
}

func Test_resolveCouponDiscount_固定額は小計を超えない(t *testing.T) {
	c := model.Coupon{Type: model.CouponTypeFixed, Value: dec("500.00")}

	assert.True(t, dec("500.00").Equal(resolveCouponDiscount(c, dec("1000.00"))))

	//小計300に500円引き → 300
	assert.True(t, dec("300.00").Equal(resolveCouponDiscount(c, dec("300.00"))))
}

func Test_resolveCouponDiscount_不明なタイプはゼロ(t *testing.T) {
	c := model.Coupon{Type: "UNKNOWN", Value: dec("50")}
	assert.True(t, resolveCouponDiscount(c, dec("1000.00")).IsZero())
}

func Test_resolveShippingCharge_しきい値以上で送料無料(t *testing.T) {
	s := model.ShippingSetting{
		FreeShippingThreshold: dec("500.00"),
		ShippingCharge:        dec("60.00"),
	}

	assert.True(t, resolveShippingCharge(s, dec("500.00")).IsZero())
	assert.True(t, dec("60.00").Equal(resolveShippingCharge(s, dec("499.99"))))

	//しきい値0は無料配送なし
	s.FreeShippingThreshold = dec("0")
	assert.True(t, dec("60.00").Equal(resolveShippingCharge(s, dec("10000.00"))))
}
