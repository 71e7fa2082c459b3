package model

import "time"

// カートの明細。バリアントと数量だけを持つ。
// 価格はここに持たせない（決済時に必ず再計算する）。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;uniqueIndex:uq_cart_items_cart_variant" json:"cart_id"`
	VariantID int64     `gorm:"not null;uniqueIndex:uq_cart_items_cart_variant" json:"variant_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
