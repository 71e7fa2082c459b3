package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 送料ポリシー（単一ストアなので1行だけ）
type ShippingSetting struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//0なら無料配送なし
	FreeShippingThreshold decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"free_shipping_threshold"`
	ShippingCharge        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_charge"`

	//代引き手数料
	CodCharge decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cod_charge"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
