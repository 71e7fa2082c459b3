package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CheckoutIntentRepository interface {
	Create(ctx context.Context, intent model.CheckoutIntent) (int64, error)
	FindByRef(ctx context.Context, intentRef string) (model.CheckoutIntent, bool, error)
}
