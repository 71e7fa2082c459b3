package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 時間限定セール。対象商品はFlashSaleProductで紐づける。
type FlashSale struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	StartTime       time.Time       `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time       `gorm:"not null;index" json:"end_time"`
	IsActive        bool            `gorm:"not null;default:false" json:"is_active"`

	//累計販売数。決済トランザクション内でSQL式加算のみ
	SoldCount int64 `gorm:"not null;default:0" json:"sold_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// フラグだけでなく時間窓も必ず見る
func (f FlashSale) CoversAt(at time.Time) bool {
	if !f.IsActive {
		return false
	}
	return !at.Before(f.StartTime) && !at.After(f.EndTime)
}

type FlashSaleProduct struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	FlashSaleID int64 `gorm:"not null;uniqueIndex:uniq_flash_sale_product" json:"flash_sale_id"`
	ProductID   int64 `gorm:"not null;uniqueIndex:uniq_flash_sale_product;index" json:"product_id"`
}
