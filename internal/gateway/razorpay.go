package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const razorpayDefaultBaseURL = "https://api.razorpay.com"

// RazorpayGateway はOrders APIを直接叩く薄いクライアント
type RazorpayGateway struct {
	keyID   string
	secret  string
	baseURL string
	client  *http.Client
}

func NewRazorpayGateway(keyID, secret, baseURL string, timeout time.Duration) *RazorpayGateway {
	if baseURL == "" {
		baseURL = razorpayDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayGateway{
		keyID:   keyID,
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"` //最小通貨単位
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResponse struct {
	ID string `json:"id"`
}

type razorpayPaymentResponse struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, meta map[string]string) (string, error) {
	body := razorpayOrderRequest{
		Amount:   MinorUnits(amount),
		Currency: strings.ToUpper(currency),
		Receipt:  meta["receipt"],
		Notes:    meta,
	}

	var resp razorpayOrderResponse
	if err := g.do(ctx, http.MethodPost, "/v1/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: empty order id", ErrRequest)
	}
	return resp.ID, nil
}

func (g *RazorpayGateway) VerifySignature(intentRef, paymentRef, signature string) error {
	return verifySignature(g.secret, intentRef, paymentRef, signature)
}

func (g *RazorpayGateway) FetchPaymentMethod(ctx context.Context, paymentRef string) (Method, error) {
	var resp razorpayPaymentResponse
	if err := g.do(ctx, http.MethodGet, "/v1/payments/"+paymentRef, nil, &resp); err != nil {
		return Method{}, err
	}
	return normalizeMethod(resp.Method), nil
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, in interface{}, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.keyID, g.secret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := g.client.Do(req)
	if err != nil {
		//タイムアウトもここに落ちる
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRequest, res.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrRequest, err)
		}
	}
	return nil
}
