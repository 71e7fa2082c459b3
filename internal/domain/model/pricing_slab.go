package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 数量スラブ。VariantID か ProductID のどちらか一方だけを持つ。
// 同一スコープ内でレンジは重複させない。
type PricingSlab struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID *int64 `gorm:"index" json:"variant_id,omitempty"`
	ProductID *int64 `gorm:"index" json:"product_id,omitempty"`

	MinQty int64  `gorm:"not null" json:"min_qty"`
	MaxQty *int64 `json:"max_qty,omitempty"` // nilなら上限なし

	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// qtyがこのスラブのレンジに入るか
func (s PricingSlab) Matches(qty int64) bool {
	if qty < s.MinQty {
		return false
	}
	if s.MaxQty != nil && qty > *s.MaxQty {
		return false
	}
	return true
}
