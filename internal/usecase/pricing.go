package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

var oneHundred = decimal.NewFromInt(100)

// 決済時に確定した1行分の単価
type ResolvedPrice struct {
	UnitPrice       decimal.Decimal
	FlashSaleID     *int64
	FlashSaleName   string
	DiscountPercent *decimal.Decimal
	OriginalPrice   *decimal.Decimal
}

// スラブ解決。variant側を優先し、なければproduct側、どちらも無ければ
// セール価格→通常価格の順で落ちる。
// スラブはmin_qty降順でプリロードされている前提。
func resolveSlabPrice(v model.Variant, qty int64) decimal.Decimal {
	for _, s := range v.Slabs {
		if s.Matches(qty) {
			return s.Price
		}
	}
	for _, s := range v.Product.Slabs {
		if s.Matches(qty) {
			return s.Price
		}
	}
	if v.SalePrice != nil && v.SalePrice.IsPositive() {
		return *v.SalePrice
	}
	return v.Price
}

// スラブ価格にフラッシュセール割引を掛けた最終単価を返す。
// セール窓の判定は必ずatで行う（キャッシュ越しでも再判定される）。
func resolveLinePrice(ctx context.Context, flashSales repo.FlashSaleRepository, v model.Variant, qty int64, at time.Time) (ResolvedPrice, error) {
	base := resolveSlabPrice(v, qty).Round(2)

	sale, found, err := flashSales.FindActiveForProduct(ctx, v.ProductID, at)
	if err != nil {
		return ResolvedPrice{}, err
	}
	if !found || !sale.CoversAt(at) {
		return ResolvedPrice{UnitPrice: base}, nil
	}

	discount := base.Mul(sale.DiscountPercent).Div(oneHundred).Round(2)
	price := base.Sub(discount)
	if price.IsNegative() {
		price = decimal.Zero
	}

	saleID := sale.ID
	percent := sale.DiscountPercent
	original := base
	return ResolvedPrice{
		UnitPrice:       price,
		FlashSaleID:     &saleID,
		FlashSaleName:   sale.Name,
		DiscountPercent: &percent,
		OriginalPrice:   &original,
	}, nil
}
