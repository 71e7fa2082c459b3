package repository

import (
	"context"

	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	variants   repo.VariantRepository
	inventory  repo.InventoryRepository
	coupons    repo.CouponRepository
	flashSales repo.FlashSaleRepository
	payments   repo.PaymentRepository
	intents    repo.CheckoutIntentRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository            { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository    { return r.orderItems }
func (r *txReposGorm) Carts() repo.CartRepository              { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository      { return r.cartItems }
func (r *txReposGorm) Variants() repo.VariantRepository        { return r.variants }
func (r *txReposGorm) Inventory() repo.InventoryRepository     { return r.inventory }
func (r *txReposGorm) Coupons() repo.CouponRepository          { return r.coupons }
func (r *txReposGorm) FlashSales() repo.FlashSaleRepository    { return r.flashSales }
func (r *txReposGorm) Payments() repo.PaymentRepository        { return r.payments }
func (r *txReposGorm) Intents() repo.CheckoutIntentRepository  { return r.intents }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			carts:      NewCartGormRepository(tx),
			cartItems:  NewCartGormRepository(tx),
			variants:   NewVariantGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
			coupons:    NewCouponGormRepository(tx),
			flashSales: NewFlashSaleGormRepository(tx),
			payments:   NewPaymentGormRepository(tx),
			intents:    NewCheckoutIntentGormRepository(tx),
		}
		return fn(r)
	})
}
