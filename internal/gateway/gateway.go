package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ゲートウェイ固有のリクエスト/レスポンス形はこの下に隠す
var (
	//有効な資格情報が1件もない
	ErrNotConfigured = errors.New("gateway not configured")

	//資格情報の復号に失敗
	ErrAuth = errors.New("gateway credential error")

	//リモート呼び出しの失敗（タイムアウト含む）
	ErrRequest = errors.New("gateway request failed")

	//署名不一致。リトライしない
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// 正規化した支払い方法
type Method struct {
	Kind   string `json:"kind"` // CARD / UPI / NETBANKING / WALLET / OTHER
	Detail string `json:"detail,omitempty"`
}

type Gateway interface {
	Name() string

	// CreateIntent は注文インテントを作ってその参照を返す
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, meta map[string]string) (string, error)

	// VerifySignature は支払い証明の署名を検証する。不一致はErrInvalidSignature
	VerifySignature(intentRef, paymentRef, signature string) error

	// FetchPaymentMethod は支払い方法を取得して正規化する
	FetchPaymentMethod(ctx context.Context, paymentRef string) (Method, error)
}

// MinorUnits は最小通貨単位の整数へ変換する。
// 先に2桁へ丸めてから100倍する。順序を逆にすると1セントずれることがある。
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

func normalizeMethod(raw string) Method {
	switch raw {
	case "card":
		return Method{Kind: "CARD"}
	case "upi":
		return Method{Kind: "UPI"}
	case "netbanking":
		return Method{Kind: "NETBANKING"}
	case "wallet":
		return Method{Kind: "WALLET"}
	case "":
		return Method{Kind: "OTHER"}
	default:
		return Method{Kind: "OTHER", Detail: raw}
	}
}
