package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shop/internal/config"
)

// Connect は設定からDSNを組み立てて *gorm.DB を返す。
// TranslateErrorを有効にして、ユニーク制約違反を
// gorm.ErrDuplicatedKeyとして受け取れるようにする（payment_refの冪等判定で使う）。
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}
