package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。価格はスラブ・セール適用後の確定値。
// セールが効いた行は割引前価格とセールの素性も残す（履歴表示用）。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	VariantID int64 `gorm:"not null;index" json:"variant_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	SKU         string `gorm:"type:varchar(100);not null" json:"sku"`
	Quantity    int64  `gorm:"not null" json:"quantity"`

	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`

	FlashSaleID     *int64           `gorm:"index" json:"flash_sale_id,omitempty"`
	FlashSaleName   string           `gorm:"type:varchar(255)" json:"flash_sale_name,omitempty"`
	DiscountPercent *decimal.Decimal `gorm:"type:numeric(5,2)" json:"discount_percent,omitempty"`
	OriginalPrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"original_price,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
