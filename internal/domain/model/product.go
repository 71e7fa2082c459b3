package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	//商品スコープのスラブ
	Slabs []PricingSlab `gorm:"foreignKey:ProductID" json:"slabs,omitempty"`
}

// バリアント（SKU単位）。在庫はここで持つ。
type Variant struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64            `gorm:"not null;index" json:"product_id"`
	SKU       string           `gorm:"type:varchar(100);not null;uniqueIndex" json:"sku"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	SalePrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"sale_price,omitempty"`

	//在庫数（0未満にはしない。減算は条件付きUPDATEのみ）
	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	//バリアントスコープのスラブ（商品スコープより優先）
	Slabs []PricingSlab `gorm:"foreignKey:VariantID" json:"slabs,omitempty"`
}
