package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 認証自体は外部。ここでは参照だけ。
type UserRepository interface {
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
}
