package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// UpdateStatusIf は現在statusがfromのいずれかのときだけtoへ進める。
	// 進められなければfalse（競合 or 不正な遷移）。
	UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error)

	// キャンセル確定のメタデータ付き遷移
	Cancel(ctx context.Context, orderID int64, from []model.OrderStatus, reason string, at time.Time) (bool, error)

	// このインテントに紐づくCANCELLED注文があるか
	// （キャンセル済みチェックアウトの支払い証明の再利用を弾く）
	HasCancelledByIntentRef(ctx context.Context, intentRef string) (bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
