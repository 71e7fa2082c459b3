package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "PERCENTAGE"
	CouponTypeFixed      CouponType = "FIXED"
)

type Coupon struct {
	ID    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code  string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Type  CouponType      `gorm:"type:varchar(20);not null" json:"type"`
	Value decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`

	//trueならPERCENTAGEは90%で頭打ち
	Capped    bool  `gorm:"not null;default:false" json:"capped"`
	UsedCount int64 `gorm:"not null;default:0" json:"used_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ユーザーに配布されたクーポン。1回使い切り。
// ユーザーごとにACTIVEは1枚（部分ユニークで担保）
type UserCoupon struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64 `gorm:"not null;index;uniqueIndex:uniq_active_user_coupon,where:is_active" json:"user_id"`
	CouponID int64 `gorm:"not null;index" json:"coupon_id"`

	IsActive bool       `gorm:"not null;default:true" json:"is_active"`
	UsedAt   *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Coupon Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}
