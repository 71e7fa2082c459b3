package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeGateway はPaymentIntentsで実装する。
// 署名検証はrazorpayと同じスキーム（HMAC over intent|payment）で、
// 鍵はこの設定のシークレットを使う。
type StripeGateway struct {
	secret string //HMAC用
	api    *client.API
}

func NewStripeGateway(apiKey, secret string) *StripeGateway {
	sc := client.New(apiKey, nil)
	return &StripeGateway{secret: secret, api: sc}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, meta map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return pi.ID, nil
}

func (g *StripeGateway) VerifySignature(intentRef, paymentRef, signature string) error {
	return verifySignature(g.secret, intentRef, paymentRef, signature)
}

func (g *StripeGateway) FetchPaymentMethod(ctx context.Context, paymentRef string) (Method, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("payment_method")

	pi, err := g.api.PaymentIntents.Get(paymentRef, params)
	if err != nil {
		return Method{}, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	if pi.PaymentMethod == nil {
		return Method{Kind: "OTHER"}, nil
	}
	return normalizeMethod(string(pi.PaymentMethod.Type)), nil
}
