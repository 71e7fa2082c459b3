package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type paymentConfigRepoStub struct {
	cfg model.PaymentConfig
	err error
}

func (s *paymentConfigRepoStub) FindActive(ctx context.Context, gatewayName string, ownerID *int64) (model.PaymentConfig, error) {
	if s.err != nil {
		return model.PaymentConfig{}, s.err
	}
	return s.cfg, nil
}

func TestResolver_設定が無ければErrNotConfigured(t *testing.T) {
	cipher, err := NewCipher("0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	r := NewResolver(&paymentConfigRepoStub{err: repo.ErrNotFound}, cipher, time.Second, "")

	_, err = r.Resolve(context.Background(), "razorpay", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResolver_別の鍵で暗号化された資格情報はErrAuth(t *testing.T) {
	enc, err := NewCipher("1111111111111111111111111111111111111111111111111111111111111111")
	require.NoError(t, err)
	keyID, err := enc.Encrypt("rzp_test_key")
	require.NoError(t, err)
	secret, err := enc.Encrypt("rzp_test_secret")
	require.NoError(t, err)

	stub := &paymentConfigRepoStub{cfg: model.PaymentConfig{
		GatewayName:        "razorpay",
		KeyIDEncrypted:     keyID,
		KeySecretEncrypted: secret,
		IsActive:           true,
	}}

	//サーバー側の鍵が違う＝復号できない
	dec, err := NewCipher("2222222222222222222222222222222222222222222222222222222222222222")
	require.NoError(t, err)

	r := NewResolver(stub, dec, time.Second, "")

	_, err = r.Resolve(context.Background(), "razorpay", nil)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestResolver_未知のゲートウェイ名(t *testing.T) {
	cipher, err := NewCipher("3333333333333333333333333333333333333333333333333333333333333333")
	require.NoError(t, err)
	keyID, err := cipher.Encrypt("key")
	require.NoError(t, err)
	secret, err := cipher.Encrypt("secret")
	require.NoError(t, err)

	stub := &paymentConfigRepoStub{cfg: model.PaymentConfig{
		GatewayName:        "paypal",
		KeyIDEncrypted:     keyID,
		KeySecretEncrypted: secret,
		IsActive:           true,
	}}

	r := NewResolver(stub, cipher, time.Second, "")

	_, err = r.Resolve(context.Background(), "paypal", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
