package usecase

import (
	"context"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type AdminOrderUsecase struct {
	orders repo.OrderRepository
	cancel *OrderUsecase
}

func NewAdminOrderUsecase(orders repo.OrderRepository, cancel *OrderUsecase) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, cancel: cancel}
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderListOutput{Orders: make([]OrderOutput, 0, len(orders)), Total: total, Page: f.Page, Limit: f.Limit}
	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOutput(o, nil))
	}
	return out, nil
}

// UpdateStatus は出荷フローの前進のみ。
// PAID→SHIPPED→DELIVERED。CANCELLEDはキャンセル処理へ委譲する。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, reason string) error {
	var from []model.OrderStatus
	switch status {
	case model.OrderStatusShipped:
		from = []model.OrderStatus{model.OrderStatusPaid, model.OrderStatusPending}
	case model.OrderStatusDelivered:
		from = []model.OrderStatus{model.OrderStatusShipped}
	case model.OrderStatusCancelled:
		return u.cancel.Cancel(ctx, 0, orderID, reason, true)
	default:
		return newValidationError("invalid status transition")
	}

	ok, err := u.orders.UpdateStatusIf(ctx, orderID, from, status)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return newConflictError("invalid status transition")
	}
	return nil
}
