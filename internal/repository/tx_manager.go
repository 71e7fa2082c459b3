package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Variants() VariantRepository
	Inventory() InventoryRepository
	Coupons() CouponRepository
	FlashSales() FlashSaleRepository
	Payments() PaymentRepository
	Intents() CheckoutIntentRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
