package repository

import (
	"context"

	"shop/internal/domain/model"
)

type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)

	// webhook決済で住所指定が無いときのフォールバック。無ければfalse
	FindDefaultByUserID(ctx context.Context, userID int64) (model.Address, bool, error)

	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, addressID int64) error
	IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error)

	// ユーザー内でデフォルトを1件に付け替える
	SetDefault(ctx context.Context, userID, addressID int64) error
}
