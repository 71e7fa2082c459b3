package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type CartItemOutput struct {
	ID          int64           `json:"id"`
	VariantID   int64           `json:"variant_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	OnFlashSale bool            `json:"on_flash_sale"`
}

type CartOutput struct {
	CartID   int64            `json:"cart_id"`
	Items    []CartItemOutput `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// カート操作。表示価格は毎回値付けし直す（カートには価格を持たない）。
type CartUsecase struct {
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	variants   repo.VariantRepository
	flashSales repo.FlashSaleRepository
	now        func() time.Time
}

func NewCartUsecase(carts repo.CartRepository, cartItems repo.CartItemRepository, variants repo.VariantRepository, flashSales repo.FlashSaleRepository) *CartUsecase {
	return &CartUsecase{
		carts:      carts,
		cartItems:  cartItems,
		variants:   variants,
		flashSales: flashSales,
		now:        time.Now,
	}
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	cart, err := u.carts.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

func (u *CartUsecase) AddToCart(ctx context.Context, userID, variantID, quantity int64) (CartOutput, error) {
	if variantID <= 0 || quantity <= 0 {
		return CartOutput{}, newValidationError("variant_id and quantity are required")
	}

	v, err := u.variants.FindForSale(ctx, variantID)
	if err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, newNotFoundError("product not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !v.Product.IsActive {
		return CartOutput{}, newValidationError("product not available")
	}
	if v.StockQuantity < quantity {
		return CartOutput{}, newInsufficientStockError(v.Product.Name)
	}

	cart, err := u.carts.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.cartItems.UpsertByCartAndVariant(ctx, cart.ID, variantID, quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID, cartItemID, quantity int64) (CartOutput, error) {
	if quantity <= 0 {
		return CartOutput{}, newValidationError("quantity must be positive")
	}

	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartOutput{}, newNotFoundError("cart item not found")
	}

	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	v, err := u.variants.FindForSale(ctx, item.VariantID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v.StockQuantity < quantity {
		return CartOutput{}, newInsufficientStockError(v.Product.Name)
	}

	if err := u.cartItems.UpdateQuantity(ctx, cartItemID, quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.carts.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID, cartItemID int64) (CartOutput, error) {
	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartOutput{}, newNotFoundError("cart item not found")
	}
	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.carts.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

func (u *CartUsecase) buildCartOutput(ctx context.Context, cart model.Cart) (CartOutput, error) {
	items, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.now()
	out := CartOutput{CartID: cart.ID, Items: make([]CartItemOutput, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		v, err := u.variants.FindForSale(ctx, item.VariantID)
		if err != nil {
			// 消えた商品は表示から落とす
			continue
		}
		rp, err := resolveLinePrice(ctx, u.flashSales, v, item.Quantity, now)
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		lineTotal := rp.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		out.Items = append(out.Items, CartItemOutput{
			ID:          item.ID,
			VariantID:   v.ID,
			ProductID:   v.ProductID,
			ProductName: v.Product.Name,
			SKU:         v.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   rp.UnitPrice,
			LineTotal:   lineTotal,
			OnFlashSale: rp.FlashSaleID != nil,
		})
		out.Subtotal = out.Subtotal.Add(lineTotal)
	}
	out.Subtotal = out.Subtotal.Round(2)
	return out, nil
}
