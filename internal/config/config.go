package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5433）

	JWTSecret string // JWT署名シークレット

	// 決済資格情報の暗号鍵（32byteのhex）
	PaymentCryptoKey string

	// ゲートウェイ呼び出しのタイムアウト
	GatewayTimeout time.Duration

	// RazorpayのベースURL。空なら本番
	RazorpayBaseURL string

	// 決済系エンドポイントのレート制限（"10-M"形式、空なら無効）
	CheckoutRateLimit string

	// RedisのアドレスはフラッシュセールキャッシュOn/Offを兼ねる（空なら無効）
	RedisAddr     string
	RedisPassword string

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		PaymentCryptoKey: os.Getenv("PAYMENT_CRYPTO_KEY"),

		RazorpayBaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
		CheckoutRateLimit: os.Getenv("CHECKOUT_RATE_LIMIT"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GoEnv: os.Getenv("GO_ENV"),
	}

	cfg.GatewayTimeout = 15 * time.Second
	if v := os.Getenv("GATEWAY_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("GATEWAY_TIMEOUT_SEC must be number: %w", err)
		}
		cfg.GatewayTimeout = time.Duration(sec) * time.Second
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PaymentCryptoKey == "" {
		return Config{}, fmt.Errorf("PAYMENT_CRYPTO_KEY is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
