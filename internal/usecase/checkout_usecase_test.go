package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shop/internal/domain/model"
	"shop/internal/gateway"
	infraRepo "shop/internal/infra/repository"
)

const testCryptoKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// =====================
// fixtures
// =====================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	//テストごとに独立したin-memory DB
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.Variant{},
		&model.PricingSlab{},
		&model.FlashSale{},
		&model.FlashSaleProduct{},
		&model.Coupon{},
		&model.UserCoupon{},
		&model.Cart{},
		&model.CartItem{},
		&model.CheckoutIntent{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryLog{},
		&model.Payment{},
		&model.PaymentConfig{},
		&model.ShippingSetting{},
	))
	return db
}

// ダミーのRazorpay API。orders作成と支払い方法取得だけ返す
func newGatewayStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/orders":
			json.NewEncoder(w).Encode(map[string]string{"id": "order_stub001"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/payments/"):
			json.NewEncoder(w).Encode(map[string]string{"method": "card"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type checkoutFixture struct {
	db     *gorm.DB
	uc     *CheckoutUsecase
	orders *OrderUsecase
	secret string
	userID int64
	addrID int64
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := newTestDB(t)
	srv := newGatewayStub(t)

	cipher, err := gateway.NewCipher(testCryptoKey)
	require.NoError(t, err)

	//ゲートウェイ資格情報（暗号化して保存）
	secret := "rzp_test_secret"
	encID, err := cipher.Encrypt("rzp_test_key")
	require.NoError(t, err)
	encSecret, err := cipher.Encrypt(secret)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.PaymentConfig{
		GatewayName:        "razorpay",
		KeyIDEncrypted:     encID,
		KeySecretEncrypted: encSecret,
		IsActive:           true,
	}).Error)

	user := model.User{Email: "buyer@example.com", Role: model.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	addr := model.Address{
		UserID: user.ID, PostalCode: "150-0001", Prefecture: "東京都",
		City: "渋谷区", Line1: "1-1-1", Name: "山田太郎", IsDefault: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&addr).Error)

	require.NoError(t, db.Create(&model.ShippingSetting{
		FreeShippingThreshold: dec("1000.00"),
		ShippingCharge:        dec("60.00"),
		CodCharge:             dec("30.00"),
	}).Error)

	cartRepo := infraRepo.NewCartGormRepository(db)
	variantRepo := infraRepo.NewVariantGormRepository(db)
	flashSaleRepo := infraRepo.NewFlashSaleGormRepository(db)
	couponRepo := infraRepo.NewCouponGormRepository(db)
	intentRepo := infraRepo.NewCheckoutIntentGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)
	orderRepo := infraRepo.NewOrderGormRepository(db)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(db)
	addressRepo := infraRepo.NewAddressGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)
	shippingRepo := infraRepo.NewShippingSettingGormRepository(db)
	configRepo := infraRepo.NewPaymentConfigGormRepository(db)
	tx := infraRepo.NewTxManagerGorm(db)

	resolver := gateway.NewResolver(configRepo, cipher, 5*time.Second, srv.URL)

	uc := NewCheckoutUsecase(CheckoutDeps{
		Tx:         tx,
		Carts:      cartRepo,
		CartItems:  cartRepo,
		Variants:   variantRepo,
		FlashSales: flashSaleRepo,
		Coupons:    couponRepo,
		Intents:    intentRepo,
		Payments:   paymentRepo,
		Orders:     orderRepo,
		Addresses:  addressRepo,
		Users:      userRepo,
		Shipping:   shippingRepo,
		Gateways:   resolver,
	})
	orders := NewOrderUsecase(tx, orderRepo, orderItemRepo, userRepo, nil)

	return &checkoutFixture{
		db:     db,
		uc:     uc,
		orders: orders,
		secret: secret,
		userID: user.ID,
		addrID: addr.ID,
	}
}

func (f *checkoutFixture) seedVariant(t *testing.T, name, sku, price string, stock int64) model.Variant {
	t.Helper()
	p := model.Product{Name: name, IsActive: true}
	require.NoError(t, f.db.Create(&p).Error)
	v := model.Variant{ProductID: p.ID, SKU: sku, Price: dec(price), StockQuantity: stock}
	require.NoError(t, f.db.Create(&v).Error)
	return v
}

func (f *checkoutFixture) seedCart(t *testing.T, items map[int64]int64) model.Cart {
	t.Helper()
	cart := model.Cart{UserID: f.userID, Status: model.CartStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, f.db.Create(&cart).Error)
	for variantID, qty := range items {
		require.NoError(t, f.db.Create(&model.CartItem{CartID: cart.ID, VariantID: variantID, Quantity: qty}).Error)
	}
	return cart
}

func (f *checkoutFixture) seedIntent(t *testing.T, ref string, amount string, couponID *int64) model.CheckoutIntent {
	t.Helper()
	in := model.CheckoutIntent{
		IntentRef: ref, UserID: f.userID, GatewayName: "razorpay",
		Amount: dec(amount), Currency: "INR", CouponID: couponID,
	}
	require.NoError(t, f.db.Create(&in).Error)
	return in
}

func (f *checkoutFixture) sign(intentRef, paymentRef string) string {
	return gateway.Sign(f.secret, intentRef, paymentRef)
}

// =====================
// tests
// =====================

func TestCheckoutUsecase_VerifyAndSettle_正常系(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 3})
	f.seedIntent(t, "order_ok1", "360.00", nil)

	out, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_ok1",
		PaymentRef: "pay_ok1",
		Signature:  f.sign("order_ok1", "pay_ok1"),
		AddressID:  f.addrID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPaid, out.Status)
	assert.Equal(t, model.PaymentModeGateway, out.PaymentMode)
	assert.True(t, dec("300.00").Equal(out.Subtotal))
	//小計300は送料無料ライン未満
	assert.True(t, dec("60.00").Equal(out.ShippingCharge))
	assert.True(t, dec("360.00").Equal(out.Total))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Tシャツ", out.Items[0].ProductName)

	//在庫が減り、台帳が残る
	var got model.Variant
	require.NoError(t, f.db.First(&got, v.ID).Error)
	assert.Equal(t, int64(7), got.StockQuantity)

	var logs []model.InventoryLog
	require.NoError(t, f.db.Where("variant_id = ?", v.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.InventoryReasonSale, logs[0].Reason)
	assert.Equal(t, int64(10), logs[0].PreviousQty)
	assert.Equal(t, int64(7), logs[0].NewQty)

	//Payment行
	var pay model.Payment
	require.NoError(t, f.db.Where("payment_ref = ?", "pay_ok1").First(&pay).Error)
	assert.Equal(t, model.PaymentStatusCaptured, pay.Status)
	assert.Equal(t, "CARD", pay.Method)

	//カートは清算済み
	var itemCount int64
	require.NoError(t, f.db.Model(&model.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestCheckoutUsecase_VerifyAndSettle_署名不一致は確定しない(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_sig", "160.00", nil)

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_sig",
		PaymentRef: "pay_sig",
		Signature:  "deadbeef",
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidSignature, he.Code)

	//注文も在庫減算も起きていない
	var orderCount int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCheckoutUsecase_VerifyAndSettle_同じ支払い参照は一度だけ(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_dup", "160.00", nil)

	in := VerifyInput{
		IntentRef:  "order_dup",
		PaymentRef: "pay_dup",
		Signature:  f.sign("order_dup", "pay_dup"),
		AddressID:  f.addrID,
	}

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, in)
	require.NoError(t, err)

	//2回目はconflict。注文は増えない
	_, err = f.uc.VerifyAndSettle(ctx, f.userID, in)
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, he.Code)

	var orderCount int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestCheckoutUsecase_VerifyAndSettle_在庫不足は商品名を返して巻き戻す(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v1 := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	v2 := f.seedVariant(t, "パーカー", "PK-001", "200.00", 1)
	f.seedCart(t, map[int64]int64{v1.ID: 2, v2.ID: 5})
	f.seedIntent(t, "order_nostock", "1200.00", nil)

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_nostock",
		PaymentRef: "pay_nostock",
		Signature:  f.sign("order_nostock", "pay_nostock"),
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, he.Code)
	assert.Contains(t, he.Message, "パーカー")

	//全部ロールバック（Tシャツ側の減算も戻る）
	var got model.Variant
	require.NoError(t, f.db.First(&got, v1.ID).Error)
	assert.Equal(t, int64(10), got.StockQuantity)

	var orderCount, logCount int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&model.InventoryLog{}).Count(&logCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, logCount)
}

func TestCheckoutUsecase_VerifyAndSettle_キャンセル済みインテントの証明は使えない(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_cxl", "160.00", nil)

	//同じインテントの注文が既にキャンセル済み
	now := time.Now()
	require.NoError(t, f.db.Create(&model.Order{
		OrderNumber: "ORD-CXL001", UserID: f.userID, AddressID: f.addrID,
		Status: model.OrderStatusCancelled, IntentRef: "order_cxl",
		PaymentMode: model.PaymentModeGateway,
		Subtotal:    dec("100.00"), Total: dec("160.00"),
		CancelledAt: &now,
	}).Error)

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_cxl",
		PaymentRef: "pay_cxl2",
		Signature:  f.sign("order_cxl", "pay_cxl2"),
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, he.Code)
}

func TestCheckoutUsecase_CashOrder_代引きはPENDINGで手数料が乗る(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 2})

	out, err := f.uc.CashOrder(ctx, f.userID, CashOrderInput{AddressID: f.addrID})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, model.PaymentModeCash, out.PaymentMode)
	assert.True(t, dec("30.00").Equal(out.CodCharge))
	//200 + 送料60 + 代引き30
	assert.True(t, dec("290.00").Equal(out.Total))

	//現金注文にPayment行は無い
	var payCount int64
	require.NoError(t, f.db.Model(&model.Payment{}).Count(&payCount).Error)
	assert.Zero(t, payCount)
}

func TestCheckoutUsecase_クーポンは一度しか使えない(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	coupon := model.Coupon{Code: "SAVE15", Type: model.CouponTypePercentage, Value: dec("15")}
	require.NoError(t, f.db.Create(&coupon).Error)
	uc := model.UserCoupon{UserID: f.userID, CouponID: coupon.ID, IsActive: true}
	require.NoError(t, f.db.Create(&uc).Error)

	v := f.seedVariant(t, "Tシャツ", "TS-001", "1000.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})

	out, err := f.uc.CashOrder(ctx, f.userID, CashOrderInput{AddressID: f.addrID, CouponCode: "SAVE15"})
	require.NoError(t, err)
	assert.True(t, dec("150.00").Equal(out.Discount))
	assert.Equal(t, "SAVE15", out.CouponCode)

	//消費済み・使用回数加算
	var gotUC model.UserCoupon
	require.NoError(t, f.db.First(&gotUC, uc.ID).Error)
	assert.False(t, gotUC.IsActive)
	require.NotNil(t, gotUC.UsedAt)

	var gotCoupon model.Coupon
	require.NoError(t, f.db.First(&gotCoupon, coupon.ID).Error)
	assert.Equal(t, int64(1), gotCoupon.UsedCount)

	//2回目の注文では同じコードは使えない
	f.seedCart(t, map[int64]int64{v.ID: 1})
	_, err = f.uc.CashOrder(ctx, f.userID, CashOrderInput{AddressID: f.addrID, CouponCode: "SAVE15"})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, he.Code)
}

func TestCheckoutUsecase_在庫1を取り合うと片方だけ成功する(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "限定品", "LTD-001", "500.00", 1)

	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_race1", "560.00", nil)
	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_race1",
		PaymentRef: "pay_race1",
		Signature:  f.sign("order_race1", "pay_race1"),
		AddressID:  f.addrID,
	})
	require.NoError(t, err)

	//もう一度同じバリアントを積んでも、在庫は条件付きUPDATEで守られる
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_race2", "560.00", nil)
	_, err = f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_race2",
		PaymentRef: "pay_race2",
		Signature:  f.sign("order_race2", "pay_race2"),
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, he.Code)

	var got model.Variant
	require.NoError(t, f.db.First(&got, v.ID).Error)
	assert.Zero(t, got.StockQuantity)
}

func TestCheckoutUsecase_フラッシュセールの素性が明細に残る(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)

	now := time.Now()
	sale := model.FlashSale{
		Name: "タイムセール", DiscountPercent: dec("20"),
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsActive: true,
	}
	require.NoError(t, f.db.Create(&sale).Error)
	require.NoError(t, f.db.Create(&model.FlashSaleProduct{FlashSaleID: sale.ID, ProductID: v.ProductID}).Error)

	f.seedCart(t, map[int64]int64{v.ID: 2})

	out, err := f.uc.CashOrder(ctx, f.userID, CashOrderInput{AddressID: f.addrID})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.True(t, dec("80.00").Equal(out.Items[0].UnitPrice))
	assert.Equal(t, "タイムセール", out.Items[0].FlashSaleName)
	require.NotNil(t, out.Items[0].OriginalPrice)
	assert.True(t, dec("100.00").Equal(*out.Items[0].OriginalPrice))

	var gotSale model.FlashSale
	require.NoError(t, f.db.First(&gotSale, sale.ID).Error)
	assert.Equal(t, int64(2), gotSale.SoldCount)
}

func TestOrderUsecase_キャンセルで在庫が戻る(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 3})
	f.seedIntent(t, "order_cancel", "360.00", nil)

	out, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_cancel",
		PaymentRef: "pay_cancel",
		Signature:  f.sign("order_cancel", "pay_cancel"),
		AddressID:  f.addrID,
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.Cancel(ctx, f.userID, out.ID, "気が変わった", false))

	var got model.Variant
	require.NoError(t, f.db.First(&got, v.ID).Error)
	assert.Equal(t, int64(10), got.StockQuantity)

	//cancellation台帳とPaymentの返金
	var logs []model.InventoryLog
	require.NoError(t, f.db.Where("reason = ?", model.InventoryReasonCancellation).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(7), logs[0].PreviousQty)
	assert.Equal(t, int64(10), logs[0].NewQty)

	var pay model.Payment
	require.NoError(t, f.db.Where("order_id = ?", out.ID).First(&pay).Error)
	assert.Equal(t, model.PaymentStatusRefunded, pay.Status)

	//二重キャンセルはconflict
	err = f.orders.Cancel(ctx, f.userID, out.ID, "もう一度", false)
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, he.Code)
}

func TestCheckoutUsecase_CreateIntent_インテントを控えに残す(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "1200.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})

	out, err := f.uc.CreateIntent(ctx, f.userID, CreateIntentInput{Currency: "inr"})
	require.NoError(t, err)

	assert.Equal(t, "order_stub001", out.IntentRef)
	assert.Equal(t, "razorpay", out.Gateway)
	assert.Equal(t, "INR", out.Currency)
	//1200は送料無料ライン以上
	assert.True(t, out.Shipping.IsZero())
	assert.True(t, dec("1200.00").Equal(out.Total))

	var intent model.CheckoutIntent
	require.NoError(t, f.db.Where("intent_ref = ?", "order_stub001").First(&intent).Error)
	assert.Equal(t, f.userID, intent.UserID)
	assert.True(t, dec("1200.00").Equal(intent.Amount))

	//この時点では在庫もカートも触らない
	var got model.Variant
	require.NoError(t, f.db.First(&got, v.ID).Error)
	assert.Equal(t, int64(10), got.StockQuantity)
}

func TestCheckoutUsecase_CreateIntent_空カートはvalidation(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.CreateIntent(context.Background(), f.userID, CreateIntentInput{})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, he.Code)
}

func TestCheckoutUsecase_SettleWebhook_デフォルト住所で確定する(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	v := f.seedVariant(t, "Tシャツ", "TS-001", "100.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_wh", "160.00", nil)

	//クライアントのverifyが来なくてもwebhookで着地する
	out, err := f.uc.SettleWebhook(ctx, WebhookInput{
		IntentRef:  "order_wh",
		PaymentRef: "pay_wh",
		Signature:  f.sign("order_wh", "pay_wh"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, out.Status)

	var order model.Order
	require.NoError(t, f.db.Where("intent_ref = ?", "order_wh").First(&order).Error)
	assert.Equal(t, f.addrID, order.AddressID)
}

func TestCheckoutUsecase_インテントのクーポンが失効していたら確定しない(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	coupon := model.Coupon{Code: "SAVE15", Type: model.CouponTypePercentage, Value: dec("15")}
	require.NoError(t, f.db.Create(&coupon).Error)
	uc := model.UserCoupon{UserID: f.userID, CouponID: coupon.ID, IsActive: true}
	require.NoError(t, f.db.Create(&uc).Error)

	v := f.seedVariant(t, "Tシャツ", "TS-001", "1000.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})

	//ゲートウェイには割引込みの金額(850+送料60)で課金済み
	f.seedIntent(t, "order_cpn_gone", "910.00", &coupon.ID)

	//決済完了までの間にクーポンが失効
	require.NoError(t, f.db.Model(&model.UserCoupon{}).
		Where("id = ?", uc.ID).
		Update("is_active", false).Error)

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_cpn_gone",
		PaymentRef: "pay_cpn_gone",
		Signature:  f.sign("order_cpn_gone", "pay_cpn_gone"),
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, he.Code)

	//割引なしの金額で注文を作らない
	var orderCount int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	//在庫もカートも手つかず
	var gotV model.Variant
	require.NoError(t, f.db.First(&gotV, v.ID).Error)
	assert.Equal(t, int64(10), gotV.StockQuantity)
}

func TestCheckoutUsecase_インテントと別のクーポンに差し替わっていたら確定しない(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	oldCoupon := model.Coupon{Code: "SAVE15", Type: model.CouponTypePercentage, Value: dec("15")}
	require.NoError(t, f.db.Create(&oldCoupon).Error)
	newCoupon := model.Coupon{Code: "SAVE50", Type: model.CouponTypePercentage, Value: dec("50")}
	require.NoError(t, f.db.Create(&newCoupon).Error)

	//intent時点のクーポンは消え、別のクーポンがACTIVEになっている
	require.NoError(t, f.db.Create(&model.UserCoupon{
		UserID: f.userID, CouponID: newCoupon.ID, IsActive: true,
	}).Error)

	v := f.seedVariant(t, "Tシャツ", "TS-002", "1000.00", 10)
	f.seedCart(t, map[int64]int64{v.ID: 1})
	f.seedIntent(t, "order_cpn_swap", "910.00", &oldCoupon.ID)

	_, err := f.uc.VerifyAndSettle(ctx, f.userID, VerifyInput{
		IntentRef:  "order_cpn_swap",
		PaymentRef: "pay_cpn_swap",
		Signature:  f.sign("order_cpn_swap", "pay_cpn_swap"),
		AddressID:  f.addrID,
	})
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, he.Code)
}
