package model

import "time"

const (
	InventoryReasonSale         = "sale"
	InventoryReasonCancellation = "cancellation"
	InventoryReasonAdjustment   = "adjustment"
)

// 在庫台帳。追記のみ。更新・削除はしない。
type InventoryLog struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID   int64  `gorm:"not null;index" json:"variant_id"`
	OrderID     *int64 `gorm:"index" json:"order_id,omitempty"`
	PreviousQty int64  `gorm:"not null" json:"previous_qty"`
	NewQty      int64  `gorm:"not null" json:"new_qty"`
	Reason      string `gorm:"type:varchar(32);not null" json:"reason"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
