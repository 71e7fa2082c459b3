package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

// payment_refのユニーク違反はErrDuplicateに寄せる
func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (int64, error) {
	err := r.db.WithContext(ctx).Create(&p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, repo.ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PaymentGormRepository) FindByPaymentRef(ctx context.Context, paymentRef string) (model.Payment, bool, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("payment_ref = ?", paymentRef).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, false, nil
	}
	if err != nil {
		return model.Payment{}, false, err
	}
	return p, true, nil
}

func (r *PaymentGormRepository) UpdateStatusByOrderID(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	//現金注文は支払いレコードが無いので0行でもエラーにしない
	return nil
}
