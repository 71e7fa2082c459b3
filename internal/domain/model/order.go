package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentMode string

const (
	PaymentModeGateway PaymentMode = "GATEWAY"
	PaymentModeCash    PaymentMode = "CASH"
)

// 確定済み注文。金額の内訳は確定時点のスナップショットで、
// あとからカタログが変わっても書き換えない。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	AddressID   int64       `gorm:"not null" json:"address_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//ゲートウェイ注文インテントの参照（現金注文は空）
	IntentRef   string      `gorm:"type:varchar(128);index" json:"-"`
	GatewayName string      `gorm:"type:varchar(32)" json:"gateway_name,omitempty"`
	PaymentMode PaymentMode `gorm:"type:varchar(20);not null" json:"payment_mode"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	ShippingCharge decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_charge"`
	Tax            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	CodCharge      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cod_charge"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	CouponCode string `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`

	CancelReason string     `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
