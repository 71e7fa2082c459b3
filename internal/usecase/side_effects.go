package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"shop/internal/domain/model"
)

// 注文確定メール等の送信先
type NotificationSender interface {
	SendOrderConfirmation(ctx context.Context, email string, order model.Order, items []model.OrderItem) error
	SendOrderCancellation(ctx context.Context, email string, order model.Order) error
}

// 配送業者連携
type ShipmentClient interface {
	RegisterOrder(ctx context.Context, order model.Order) (string, error)
	CancelOrder(ctx context.Context, orderID int64) error
}

// 紹介報酬の付与
type ReferralEngine interface {
	OrderSettled(ctx context.Context, orderID int64, userID int64, total string) error
}

// 決済後の副作用をまとめて非同期実行する。
// 失敗してもトランザクションは巻き戻さない。記録して諦める。
type SideEffectDispatcher struct {
	notifications NotificationSender
	shipments     ShipmentClient
	referrals     ReferralEngine
	logger        *zap.Logger
	attempts      int
	baseDelay     time.Duration
	timeout       time.Duration
}

func NewSideEffectDispatcher(n NotificationSender, s ShipmentClient, r ReferralEngine, logger *zap.Logger) *SideEffectDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SideEffectDispatcher{
		notifications: n,
		shipments:     s,
		referrals:     r,
		logger:        logger,
		attempts:      3,
		baseDelay:     200 * time.Millisecond,
		timeout:       30 * time.Second,
	}
}

func (d *SideEffectDispatcher) OrderSettled(order model.Order, items []model.OrderItem, email string) {
	if d == nil {
		return
	}
	go func() {
		// リクエストのctxはもう生きていないので独立したctxを張る
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if d.referrals != nil {
			err := withBackoff(d.attempts, d.baseDelay, func() error {
				return d.referrals.OrderSettled(ctx, order.ID, order.UserID, order.Total.StringFixed(2))
			})
			if err != nil {
				d.logger.Warn("referral reward failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			}
		}

		if d.shipments != nil {
			var tracking string
			err := withBackoff(d.attempts, d.baseDelay, func() error {
				var e error
				tracking, e = d.shipments.RegisterOrder(ctx, order)
				return e
			})
			if err != nil {
				d.logger.Warn("shipment registration failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			} else {
				d.logger.Info("shipment registered",
					zap.Int64("order_id", order.ID), zap.String("tracking_ref", tracking))
			}
		}

		if d.notifications != nil && email != "" {
			err := withBackoff(d.attempts, d.baseDelay, func() error {
				return d.notifications.SendOrderConfirmation(ctx, email, order, items)
			})
			if err != nil {
				d.logger.Warn("order confirmation mail failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			}
		}
	}()
}

func (d *SideEffectDispatcher) OrderCancelled(order model.Order, email string) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if d.shipments != nil {
			err := withBackoff(d.attempts, d.baseDelay, func() error {
				return d.shipments.CancelOrder(ctx, order.ID)
			})
			if err != nil {
				d.logger.Warn("shipment cancel failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			}
		}

		if d.notifications != nil && email != "" {
			err := withBackoff(d.attempts, d.baseDelay, func() error {
				return d.notifications.SendOrderCancellation(ctx, email, order)
			})
			if err != nil {
				d.logger.Warn("cancellation mail failed",
					zap.Int64("order_id", order.ID), zap.Error(err))
			}
		}
	}()
}

// 指数バックオフ＋ジッター。最後の試行後は待たない。
func withBackoff(attempts int, base time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		jitter := time.Duration(rand.Int63n(int64(base)))
		time.Sleep(base<<uint(i) + jitter)
	}
	return err
}
