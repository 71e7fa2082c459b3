package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

func (r *CouponGormRepository) FindByID(ctx context.Context, couponID int64) (model.Coupon, bool, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("id = ?", couponID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, false, nil
	}
	if err != nil {
		return model.Coupon{}, false, err
	}
	return c, true, nil
}

func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, bool, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, false, nil
	}
	if err != nil {
		return model.Coupon{}, false, err
	}
	return c, true, nil
}

func (r *CouponGormRepository) FindActiveUserCouponByUserID(ctx context.Context, userID int64) (model.UserCoupon, bool, error) {
	var uc model.UserCoupon
	err := r.db.WithContext(ctx).
		Preload("Coupon").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id desc").
		First(&uc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserCoupon{}, false, nil
	}
	if err != nil {
		return model.UserCoupon{}, false, err
	}
	return uc, true, nil
}

// is_active = true のときだけ無効化する条件付きUPDATE。
// 同じユーザーの同時決済でも二重消費にはならない。
func (r *CouponGormRepository) ConsumeUserCoupon(ctx context.Context, userCouponID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.UserCoupon{}).
		Where("id = ? AND is_active = ?", userCouponID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"used_at":   time.Now(),
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CouponGormRepository) IncrementUsedCount(ctx context.Context, couponID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", couponID).
		Update("used_count", gorm.Expr("used_count + 1"))

	if res.Error != nil {
		return res.Error
	}
	return nil
}
