package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
)

// ユニーク制約違反（payment_ref重複など）
var ErrDuplicate = errors.New("duplicate")

type PaymentRepository interface {
	// Create はpayment_refのユニーク制約違反をErrDuplicateとして返す
	Create(ctx context.Context, p model.Payment) (int64, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (model.Payment, bool, error)
	UpdateStatusByOrderID(ctx context.Context, orderID int64, status model.PaymentStatus) error
}
