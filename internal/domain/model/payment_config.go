package model

import "time"

// ゲートウェイ資格情報。鍵は暗号化したまま保存し、
// 使う瞬間だけ復号する。ログには出さない。
type PaymentConfig struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	GatewayName string `gorm:"type:varchar(32);not null;index" json:"gateway_name"`

	//マーチャントアカウント。nilなら全体デフォルト
	OwnerID *int64 `gorm:"index" json:"owner_id,omitempty"`

	KeyIDEncrypted     string `gorm:"type:text;not null" json:"-"`
	KeySecretEncrypted string `gorm:"type:text;not null" json:"-"`

	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
