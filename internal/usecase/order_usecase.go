package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type OrderItemOutput struct {
	VariantID       int64            `json:"variant_id"`
	ProductID       int64            `json:"product_id"`
	ProductName     string           `json:"product_name"`
	SKU             string           `json:"sku"`
	Quantity        int64            `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	FlashSaleName   string           `json:"flash_sale_name,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	OrderNumber    string            `json:"order_number"`
	Status         model.OrderStatus `json:"status"`
	PaymentMode    model.PaymentMode `json:"payment_mode"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Discount       decimal.Decimal   `json:"discount"`
	ShippingCharge decimal.Decimal   `json:"shipping_charge"`
	Tax            decimal.Decimal   `json:"tax"`
	CodCharge      decimal.Decimal   `json:"cod_charge"`
	Total          decimal.Decimal   `json:"total"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items,omitempty"`
}

type OrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentMode:    o.PaymentMode,
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		ShippingCharge: o.ShippingCharge,
		Tax:            o.Tax,
		CodCharge:      o.CodCharge,
		Total:          o.Total,
		CouponCode:     o.CouponCode,
		CreatedAt:      o.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			VariantID:       it.VariantID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			FlashSaleName:   it.FlashSaleName,
			DiscountPercent: it.DiscountPercent,
			OriginalPrice:   it.OriginalPrice,
		})
	}
	return out
}

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
	effects    *SideEffectDispatcher
	now        func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, orderItems repo.OrderItemRepository, users repo.UserRepository, effects *SideEffectDispatcher) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		users:      users,
		effects:    effects,
		now:        time.Now,
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) (OrderListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderListOutput{Orders: make([]OrderOutput, 0, len(orders)), Total: total, Page: page, Limit: limit}
	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOutput(o, nil))
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == repo.ErrNotFound {
			return OrderOutput{}, newNotFoundError("order not found")
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// 他人の注文は存在ごと隠す
	if o.UserID != userID {
		return OrderOutput{}, newNotFoundError("order not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o, items), nil
}

// Cancel は注文をキャンセルし、在庫を戻して台帳に記録する。
// PENDING/PAIDのみ。出荷後は通さない。
func (u *OrderUsecase) Cancel(ctx context.Context, userID, orderID int64, reason string, asAdmin bool) error {
	var cancelled model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			if err == repo.ErrNotFound {
				return newNotFoundError("order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !asAdmin && o.UserID != userID {
			return newNotFoundError("order not found")
		}

		ok, err := r.Orders().Cancel(ctx, orderID,
			[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusPaid}, reason, u.now())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return newConflictError("order cannot be cancelled")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			newQty, err := r.Inventory().IncreaseStock(ctx, it.VariantID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			oid := orderID
			if err := r.Inventory().CreateLog(ctx, model.InventoryLog{
				VariantID:   it.VariantID,
				OrderID:     &oid,
				PreviousQty: newQty - it.Quantity,
				NewQty:      newQty,
				Reason:      model.InventoryReasonCancellation,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		// 現金注文はPayment行が無い。0行更新は成功扱い
		if err := r.Payments().UpdateStatusByOrderID(ctx, orderID, model.PaymentStatusRefunded); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cancelled = o
		cancelled.Status = model.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return err
	}

	email := ""
	if user, err := u.users.FindByID(ctx, cancelled.UserID); err == nil {
		email = user.Email
	}
	u.effects.OrderCancelled(cancelled, email)
	return nil
}
