package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ゲートウェイに作ったインテントの控え。
// intent時点のクーポン参照を決済時まで持ち越すのと、
// webhook経路で買い手を引けるようにするために残す。
type CheckoutIntent struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	IntentRef   string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"intent_ref"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	GatewayName string          `gorm:"type:varchar(32);not null" json:"gateway_name"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(8);not null" json:"currency"`
	CouponID    *int64          `json:"coupon_id,omitempty"`
	AddressID   *int64          `json:"address_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
