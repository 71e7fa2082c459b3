package model

import "time"

// 配送先住所。注文が参照するため、使用中の住所は削除できない。
type Address struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64  `gorm:"not null;index:idx_addresses_user" json:"user_id"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Prefecture string `gorm:"type:varchar(100);not null" json:"prefecture"`
	City       string `gorm:"type:varchar(255);not null" json:"city"`
	Line1      string `gorm:"type:varchar(255);not null" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2"`

	//宛名と連絡先
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	//ユーザーにつきtrueは1件。webhook決済のフォールバック先
	IsDefault bool `gorm:"not null;default:false;index:idx_addresses_user" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
