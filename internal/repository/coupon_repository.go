package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CouponRepository interface {
	FindByID(ctx context.Context, couponID int64) (model.Coupon, bool, error)
	FindByCode(ctx context.Context, code string) (model.Coupon, bool, error)

	// ユーザーの現在ACTIVEなユーザークーポン（Couponプリロード済み）
	FindActiveUserCouponByUserID(ctx context.Context, userID int64) (model.UserCoupon, bool, error)

	// ConsumeUserCoupon は is_active = true のときだけ無効化する。
	// falseなら別の決済がすでに使っている。
	ConsumeUserCoupon(ctx context.Context, userCouponID int64) (bool, error)

	IncrementUsedCount(ctx context.Context, couponID int64) error
}
