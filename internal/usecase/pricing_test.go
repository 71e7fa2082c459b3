package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/domain/model"
)

// =====================
// FlashSaleRepository stub
// =====================

type flashSaleRepoStub struct {
	sale  model.FlashSale
	found bool
	err   error
}

func (s *flashSaleRepoStub) FindActiveForProduct(_ context.Context, _ int64, _ time.Time) (model.FlashSale, bool, error) {
	return s.sale, s.found, s.err
}

func (s *flashSaleRepoStub) IncrementSoldCount(_ context.Context, _ int64, _ int64) error {
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func slab(minQty int64, maxQty *int64, price string) model.PricingSlab {
	return model.PricingSlab{MinQty: minQty, MaxQty: maxQty, Price: dec(price)}
}

func i64(v int64) *int64 { return &v }

func Test_resolveSlabPrice_バリアント側スラブが商品側より優先される(t *testing.T) {
	v := model.Variant{
		Price: dec("100.00"),
		Slabs: []model.PricingSlab{
			slab(10, nil, "80.00"),
			slab(5, i64(9), "90.00"),
		},
		Product: model.Product{
			Slabs: []model.PricingSlab{
				slab(5, nil, "95.00"),
			},
		},
	}

	assert.True(t, dec("90.00").Equal(resolveSlabPrice(v, 5)))
	assert.True(t, dec("80.00").Equal(resolveSlabPrice(v, 10)))

	//バリアント側に合致なし→商品側
	assert.True(t, dec("100.00").Equal(resolveSlabPrice(v, 1)))
	v.Slabs = nil
	assert.True(t, dec("95.00").Equal(resolveSlabPrice(v, 5)))
}

func Test_resolveSlabPrice_スラブ無しはセール価格か通常価格(t *testing.T) {
	sale := dec("70.00")
	v := model.Variant{Price: dec("100.00"), SalePrice: &sale}

	assert.True(t, dec("70.00").Equal(resolveSlabPrice(v, 1)))

	v.SalePrice = nil
	assert.True(t, dec("100.00").Equal(resolveSlabPrice(v, 1)))
}

func Test_resolveLinePrice_スラブ価格にフラッシュセールを重ねる(t *testing.T) {
	now := time.Now()
	v := model.Variant{
		ProductID: 1,
		Price:     dec("100.00"),
		Slabs:     []model.PricingSlab{slab(5, nil, "90.00")},
	}
	repoStub := &flashSaleRepoStub{
		sale: model.FlashSale{
			ID:              7,
			Name:            "夏セール",
			DiscountPercent: dec("20"),
			StartTime:       now.Add(-time.Hour),
			EndTime:         now.Add(time.Hour),
			IsActive:        true,
		},
		found: true,
	}

	//スラブ90.00に20%OFF → 72.00
	rp, err := resolveLinePrice(context.Background(), repoStub, v, 5, now)
	require.NoError(t, err)
	assert.True(t, dec("72.00").Equal(rp.UnitPrice), "got %s", rp.UnitPrice)
	require.NotNil(t, rp.FlashSaleID)
	assert.Equal(t, int64(7), *rp.FlashSaleID)
	assert.Equal(t, "夏セール", rp.FlashSaleName)
	require.NotNil(t, rp.OriginalPrice)
	assert.True(t, dec("90.00").Equal(*rp.OriginalPrice))
}

func Test_resolveLinePrice_窓の外のセールは適用しない(t *testing.T) {
	now := time.Now()
	v := model.Variant{ProductID: 1, Price: dec("100.00")}

	//終了済みのセールがキャッシュ経由で返ってきても弾く
	repoStub := &flashSaleRepoStub{
		sale: model.FlashSale{
			ID:              7,
			DiscountPercent: dec("50"),
			StartTime:       now.Add(-2 * time.Hour),
			EndTime:         now.Add(-time.Hour),
			IsActive:        true,
		},
		found: true,
	}

	rp, err := resolveLinePrice(context.Background(), repoStub, v, 1, now)
	require.NoError(t, err)
	assert.True(t, dec("100.00").Equal(rp.UnitPrice))
	assert.Nil(t, rp.FlashSaleID)
}

func Test_resolveLinePrice_丸めは小数2桁(t *testing.T) {
	now := time.Now()
	v := model.Variant{ProductID: 1, Price: dec("99.99")}
	repoStub := &flashSaleRepoStub{
		sale: model.FlashSale{
			ID:              1,
			DiscountPercent: dec("33.33"),
			StartTime:       now.Add(-time.Hour),
			EndTime:         now.Add(time.Hour),
			IsActive:        true,
		},
		found: true,
	}

	rp, err := resolveLinePrice(context.Background(), repoStub, v, 1, now)
	require.NoError(t, err)

	//99.99 * 0.3333 = 33.326667 → 割引33.33 → 66.66
	assert.True(t, dec("66.66").Equal(rp.UnitPrice), "got %s", rp.UnitPrice)
}
