package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	repo "shop/internal/repository"
)

// Resolver はマーチャントの資格情報を引いて使えるGatewayを組み立てる。
// 復号はここで、呼ばれた瞬間にだけ行う。
type Resolver struct {
	configs repo.PaymentConfigRepository
	cipher  *Cipher

	timeout         time.Duration
	razorpayBaseURL string //テストで差し替える。空なら本番URL
}

func NewResolver(configs repo.PaymentConfigRepository, cipher *Cipher, timeout time.Duration, razorpayBaseURL string) *Resolver {
	return &Resolver{
		configs:         configs,
		cipher:          cipher,
		timeout:         timeout,
		razorpayBaseURL: razorpayBaseURL,
	}
}

func (r *Resolver) Resolve(ctx context.Context, gatewayName string, ownerID *int64) (Gateway, error) {
	name := strings.ToLower(strings.TrimSpace(gatewayName))
	if name == "" {
		name = "razorpay"
	}

	cfg, err := r.configs.FindActive(ctx, name, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}

	keyID, err := r.cipher.Decrypt(cfg.KeyIDEncrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	secret, err := r.cipher.Decrypt(cfg.KeySecretEncrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	switch name {
	case "razorpay":
		return NewRazorpayGateway(keyID, secret, r.razorpayBaseURL, r.timeout), nil
	case "stripe":
		return NewStripeGateway(keyID, secret), nil
	default:
		return nil, ErrNotConfigured
	}
}
