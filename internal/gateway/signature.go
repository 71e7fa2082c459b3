package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign はintentRef + "|" + paymentRefに対するHMAC-SHA256（hex）
func Sign(secret, intentRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature は定数時間比較で照合する
func verifySignature(secret, intentRef, paymentRef, signature string) error {
	expected := Sign(secret, intentRef, paymentRef)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
