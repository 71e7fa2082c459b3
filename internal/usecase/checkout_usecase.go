package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop/internal/domain/model"
	"shop/internal/gateway"
	repo "shop/internal/repository"
)

type CheckoutDeps struct {
	Tx         repo.TransactionManager
	Carts      repo.CartRepository
	CartItems  repo.CartItemRepository
	Variants   repo.VariantRepository
	FlashSales repo.FlashSaleRepository
	Coupons    repo.CouponRepository
	Intents    repo.CheckoutIntentRepository
	Payments   repo.PaymentRepository
	Orders     repo.OrderRepository
	Addresses  repo.AddressRepository
	Users      repo.UserRepository
	Shipping   repo.ShippingSettingRepository

	Gateways *gateway.Resolver
	Tax      TaxResolver
	Effects  *SideEffectDispatcher

	Now func() time.Time
}

// チェックアウトの本体。インテント発行から決済確定までを持つ。
type CheckoutUsecase struct {
	d CheckoutDeps
}

func NewCheckoutUsecase(d CheckoutDeps) *CheckoutUsecase {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Tax == nil {
		d.Tax = NewZeroTaxResolver()
	}
	return &CheckoutUsecase{d: d}
}

type CreateIntentInput struct {
	Gateway    string `json:"gateway"`
	Currency   string `json:"currency"`
	CouponCode string `json:"coupon_code"`
	AddressID  *int64 `json:"address_id"`
}

type IntentOutput struct {
	IntentRef string          `json:"intent_ref"`
	Gateway   string          `json:"gateway"`
	Currency  string          `json:"currency"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping_charge"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

type VerifyInput struct {
	IntentRef  string `json:"intent_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
	AddressID  int64  `json:"address_id"`
}

type WebhookInput struct {
	IntentRef  string `json:"intent_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
}

type CashOrderInput struct {
	AddressID  int64  `json:"address_id"`
	CouponCode string `json:"coupon_code"`
}

// 決済済みの証明。現金注文ではnil
type paymentProof struct {
	intentRef   string
	paymentRef  string
	signature   string
	gatewayName string
	method      string
}

type pricedLine struct {
	item    model.CartItem
	variant model.Variant
	price   ResolvedPrice
}

// カートを現行カタログで値付けする。表示用ではなく確定用。
func (u *CheckoutUsecase) priceCartLines(
	ctx context.Context,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	variants repo.VariantRepository,
	flashSales repo.FlashSaleRepository,
	userID int64,
	at time.Time,
) (model.Cart, []pricedLine, decimal.Decimal, error) {
	cart, err := carts.FindActiveByUserID(ctx, userID)
	if err != nil {
		if err == repo.ErrNotFound {
			return model.Cart{}, nil, decimal.Zero, newValidationError("cart is empty")
		}
		return model.Cart{}, nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return model.Cart{}, nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return model.Cart{}, nil, decimal.Zero, newValidationError("cart is empty")
	}

	subtotal := decimal.Zero
	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		v, err := variants.FindForSale(ctx, item.VariantID)
		if err != nil {
			if err == repo.ErrNotFound {
				return model.Cart{}, nil, decimal.Zero, newValidationError("product not available")
			}
			return model.Cart{}, nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !v.Product.IsActive {
			return model.Cart{}, nil, decimal.Zero, newValidationError("product not available")
		}

		rp, err := resolveLinePrice(ctx, flashSales, v, item.Quantity, at)
		if err != nil {
			return model.Cart{}, nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		subtotal = subtotal.Add(rp.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
		lines = append(lines, pricedLine{item: item, variant: v, price: rp})
	}

	return cart, lines, subtotal.Round(2), nil
}

// クーポンを解決して（userCoupon, coupon, 見つかったか）を返す。
// codeが空ならユーザーのACTIVEなクーポンを自動適用する。
func (u *CheckoutUsecase) resolveCoupon(ctx context.Context, coupons repo.CouponRepository, userID int64, code string, couponID *int64) (model.UserCoupon, bool, error) {
	uc, found, err := coupons.FindActiveUserCouponByUserID(ctx, userID)
	if err != nil {
		return model.UserCoupon{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !found {
		if couponID != nil {
			// intentはクーポン込みの金額で課金済み。割引なしで確定させない
			return model.UserCoupon{}, false, newConflictError("coupon changed since checkout started")
		}
		if code != "" {
			return model.UserCoupon{}, false, newValidationError("coupon not available")
		}
		return model.UserCoupon{}, false, nil
	}
	if code != "" && !strings.EqualFold(uc.Coupon.Code, code) {
		return model.UserCoupon{}, false, newValidationError("coupon not available")
	}
	if couponID != nil && uc.CouponID != *couponID {
		// intent時に見ていたクーポンと別物。黙って差し替えない
		return model.UserCoupon{}, false, newConflictError("coupon changed since checkout started")
	}
	return uc, true, nil
}

// CreateIntent はカートを値付けしてゲートウェイに注文インテントを作る。
// この時点では在庫もクーポンも消費しない。
func (u *CheckoutUsecase) CreateIntent(ctx context.Context, userID int64, in CreateIntentInput) (IntentOutput, error) {
	now := u.d.Now()

	_, _, subtotal, err := u.priceCartLines(ctx, u.d.Carts, u.d.CartItems, u.d.Variants, u.d.FlashSales, userID, now)
	if err != nil {
		return IntentOutput{}, err
	}

	uc, hasCoupon, err := u.resolveCoupon(ctx, u.d.Coupons, userID, in.CouponCode, nil)
	if err != nil {
		return IntentOutput{}, err
	}

	discount := decimal.Zero
	var couponID *int64
	if hasCoupon {
		discount = resolveCouponDiscount(uc.Coupon, subtotal)
		id := uc.CouponID
		couponID = &id
	}

	setting, err := u.d.Shipping.Get(ctx)
	if err != nil {
		return IntentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	discounted := subtotal.Sub(discount)
	shipping := resolveShippingCharge(setting, discounted)

	tax, err := u.d.Tax.Resolve(ctx, discounted)
	if err != nil {
		return IntentOutput{}, NewHTTPError(http.StatusInternalServerError, "tax resolution failed")
	}

	total := discounted.Add(shipping).Add(tax).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "INR"
	}

	gw, err := u.d.Gateways.Resolve(ctx, in.Gateway, nil)
	if err != nil {
		return IntentOutput{}, newGatewayError(err)
	}

	intentRef, err := gw.CreateIntent(ctx, total, currency, map[string]string{
		"receipt": "rcpt-" + uuid.NewString()[:8],
	})
	if err != nil {
		return IntentOutput{}, newGatewayError(err)
	}

	intent := model.CheckoutIntent{
		IntentRef:   intentRef,
		UserID:      userID,
		GatewayName: gw.Name(),
		Amount:      total,
		Currency:    currency,
		CouponID:    couponID,
		AddressID:   in.AddressID,
	}
	if _, err := u.d.Intents.Create(ctx, intent); err != nil {
		return IntentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return IntentOutput{
		IntentRef: intentRef,
		Gateway:   gw.Name(),
		Currency:  currency,
		Subtotal:  subtotal,
		Discount:  discount,
		Shipping:  shipping,
		Tax:       tax,
		Total:     total,
	}, nil
}

// VerifyAndSettle は支払い証明を検証して注文を確定する。クライアント経路。
func (u *CheckoutUsecase) VerifyAndSettle(ctx context.Context, userID int64, in VerifyInput) (OrderOutput, error) {
	if in.IntentRef == "" || in.PaymentRef == "" || in.Signature == "" {
		return OrderOutput{}, newValidationError("missing payment proof")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, newValidationError("address_id is required")
	}

	intent, found, err := u.d.Intents.FindByRef(ctx, in.IntentRef)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !found || intent.UserID != userID {
		return OrderOutput{}, newNotFoundError("checkout intent not found")
	}

	gw, err := u.d.Gateways.Resolve(ctx, intent.GatewayName, nil)
	if err != nil {
		return OrderOutput{}, newGatewayError(err)
	}
	if err := gw.VerifySignature(in.IntentRef, in.PaymentRef, in.Signature); err != nil {
		return OrderOutput{}, newGatewayError(err)
	}

	// 支払い方法の取得は確定を妨げない。失敗したら空のまま進む
	method := ""
	if m, err := gw.FetchPaymentMethod(ctx, in.PaymentRef); err == nil {
		method = m.Kind
	}

	return u.settle(ctx, userID, settleParams{
		addressID: in.AddressID,
		intent:    &intent,
		proof: &paymentProof{
			intentRef:   in.IntentRef,
			paymentRef:  in.PaymentRef,
			signature:   in.Signature,
			gatewayName: intent.GatewayName,
			method:      method,
		},
	})
}

// SettleWebhook はゲートウェイのサーバー通知から確定する。
// クライアントが落ちていても決済は着地させる。
func (u *CheckoutUsecase) SettleWebhook(ctx context.Context, in WebhookInput) (OrderOutput, error) {
	if in.IntentRef == "" || in.PaymentRef == "" || in.Signature == "" {
		return OrderOutput{}, newValidationError("missing payment proof")
	}

	intent, found, err := u.d.Intents.FindByRef(ctx, in.IntentRef)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !found {
		return OrderOutput{}, newNotFoundError("checkout intent not found")
	}

	addressID := int64(0)
	if intent.AddressID != nil {
		addressID = *intent.AddressID
	} else {
		addr, ok, err := u.d.Addresses.FindDefaultByUserID(ctx, intent.UserID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return OrderOutput{}, newValidationError("no shipping address on file")
		}
		addressID = addr.ID
	}

	return u.VerifyAndSettle(ctx, intent.UserID, VerifyInput{
		IntentRef:  in.IntentRef,
		PaymentRef: in.PaymentRef,
		Signature:  in.Signature,
		AddressID:  addressID,
	})
}

// CashOrder は代引き注文。決済証明なしで確定し、PENDINGのまま出荷に進む。
func (u *CheckoutUsecase) CashOrder(ctx context.Context, userID int64, in CashOrderInput) (OrderOutput, error) {
	if in.AddressID <= 0 {
		return OrderOutput{}, newValidationError("address_id is required")
	}
	return u.settle(ctx, userID, settleParams{
		addressID:  in.AddressID,
		couponCode: in.CouponCode,
		cod:        true,
	})
}

type settleParams struct {
	addressID  int64
	couponCode string
	intent     *model.CheckoutIntent //ゲートウェイ経路のみ
	proof      *paymentProof         //nilなら現金
	cod        bool
}

// settle が決済確定の唯一の入口。ゲートウェイ経路も現金経路もここを通る。
// 再値付け・在庫減算・注文作成・クーポン消費・カート清算を1トランザクションで行う。
func (u *CheckoutUsecase) settle(ctx context.Context, userID int64, p settleParams) (OrderOutput, error) {
	now := u.d.Now()

	addr, err := u.d.Addresses.FindByID(ctx, p.addressID)
	if err != nil {
		return OrderOutput{}, newNotFoundError("address not found")
	}
	if addr.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
	}

	setting, err := u.d.Shipping.Get(ctx)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var (
		out      OrderOutput
		settled  model.Order
		items    []model.OrderItem
		couponID *int64
	)
	if p.intent != nil {
		couponID = p.intent.CouponID
	}

	err = u.d.Tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if p.proof != nil {
			// 冪等ガード。同じpayment_refは2度確定させない
			if _, dup, err := r.Payments().FindByPaymentRef(ctx, p.proof.paymentRef); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			} else if dup {
				return newConflictError("payment already processed")
			}

			// キャンセル済みチェックアウトの証明は使い回せない
			cancelled, err := r.Orders().HasCancelledByIntentRef(ctx, p.proof.intentRef)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if cancelled {
				return newConflictError("checkout was cancelled")
			}
		}

		cart, lines, subtotal, err := u.priceCartLines(ctx, r.Carts(), r.CartItems(), r.Variants(), r.FlashSales(), userID, now)
		if err != nil {
			return err
		}

		uc, hasCoupon, err := u.resolveCoupon(ctx, r.Coupons(), userID, p.couponCode, couponID)
		if err != nil {
			return err
		}

		discount := decimal.Zero
		couponCode := ""
		if hasCoupon {
			discount = resolveCouponDiscount(uc.Coupon, subtotal)
			couponCode = uc.Coupon.Code
		}

		discounted := subtotal.Sub(discount)
		shipping := resolveShippingCharge(setting, discounted)
		tax, err := u.d.Tax.Resolve(ctx, discounted)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "tax resolution failed")
		}

		codCharge := decimal.Zero
		if p.cod {
			codCharge = setting.CodCharge.Round(2)
		}

		total := discounted.Add(shipping).Add(tax).Add(codCharge).Round(2)
		if total.IsNegative() {
			total = decimal.Zero
		}

		status := model.OrderStatusPending
		mode := model.PaymentModeCash
		intentRef := ""
		gatewayName := ""
		if p.proof != nil {
			status = model.OrderStatusPaid
			mode = model.PaymentModeGateway
			intentRef = p.proof.intentRef
			gatewayName = p.proof.gatewayName
		}

		order := model.Order{
			OrderNumber:    newOrderNumber(),
			UserID:         userID,
			AddressID:      p.addressID,
			Status:         status,
			IntentRef:      intentRef,
			GatewayName:    gatewayName,
			PaymentMode:    mode,
			Subtotal:       subtotal,
			Discount:       discount,
			ShippingCharge: shipping,
			Tax:            tax,
			CodCharge:      codCharge,
			Total:          total,
			CouponCode:     couponCode,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		if hasCoupon {
			ok, err := r.Coupons().ConsumeUserCoupon(ctx, uc.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return newConflictError("coupon already used")
			}
			if err := r.Coupons().IncrementUsedCount(ctx, uc.CouponID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if p.proof != nil {
			_, err := r.Payments().Create(ctx, model.Payment{
				OrderID:     orderID,
				PaymentRef:  p.proof.paymentRef,
				IntentRef:   p.proof.intentRef,
				GatewayName: p.proof.gatewayName,
				Method:      p.proof.method,
				Amount:      total,
				Status:      model.PaymentStatusCaptured,
			})
			if err == repo.ErrDuplicate {
				return newConflictError("payment already processed")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		items = items[:0]
		for _, line := range lines {
			newQty, ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.variant.ID, line.item.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return newInsufficientStockError(line.variant.Product.Name)
			}

			oid := orderID
			if err := r.Inventory().CreateLog(ctx, model.InventoryLog{
				VariantID:   line.variant.ID,
				OrderID:     &oid,
				PreviousQty: newQty + line.item.Quantity,
				NewQty:      newQty,
				Reason:      model.InventoryReasonSale,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if line.price.FlashSaleID != nil {
				if err := r.FlashSales().IncrementSoldCount(ctx, *line.price.FlashSaleID, line.item.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}

			items = append(items, model.OrderItem{
				OrderID:         orderID,
				VariantID:       line.variant.ID,
				ProductID:       line.variant.ProductID,
				ProductName:     line.variant.Product.Name,
				SKU:             line.variant.SKU,
				Quantity:        line.item.Quantity,
				UnitPrice:       line.price.UnitPrice,
				FlashSaleID:     line.price.FlashSaleID,
				FlashSaleName:   line.price.FlashSaleName,
				DiscountPercent: line.price.DiscountPercent,
				OriginalPrice:   line.price.OriginalPrice,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		settled = order
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	// commit後にだけ副作用を流す
	email := ""
	if user, err := u.d.Users.FindByID(ctx, userID); err == nil {
		email = user.Email
	}
	u.d.Effects.OrderSettled(settled, items, email)

	return out, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
