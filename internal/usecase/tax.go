package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// 税額計算の差し替えポイント。税制対応は地域ごとに別実装を挿す。
type TaxResolver interface {
	Resolve(ctx context.Context, taxableAmount decimal.Decimal) (decimal.Decimal, error)
}

type zeroTaxResolver struct{}

func NewZeroTaxResolver() TaxResolver { return zeroTaxResolver{} }

func (zeroTaxResolver) Resolve(_ context.Context, _ decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
