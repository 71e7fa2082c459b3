package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error

	// Clear は明細を空にする。カート自体は残る
	Clear(ctx context.Context, cartID int64) error
}
