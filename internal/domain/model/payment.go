package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCaptured PaymentStatus = "CAPTURED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// 外部決済1回につき1行。payment_refのユニーク制約が
// 二重決済の冪等ガードになる。
type Payment struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64  `gorm:"not null;index" json:"order_id"`
	PaymentRef string `gorm:"type:varchar(128);not null;uniqueIndex" json:"payment_ref"`
	IntentRef  string `gorm:"type:varchar(128);not null;index" json:"intent_ref"`

	GatewayName string          `gorm:"type:varchar(32);not null" json:"gateway_name"`
	Method      string          `gorm:"type:varchar(32)" json:"method,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
