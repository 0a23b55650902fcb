package model

import "time"

type Role string

const (
	// 買い物をする側（vecino）
	RoleShopper Role = "vecino"
	// お店を運営する側（tiendero）
	RoleMerchant Role = "tiendero"
)

// ParseRoleは大文字小文字を無視してRoleに変換する。
func ParseRole(s string) (Role, bool) {
	switch Role(normalize(s)) {
	case RoleShopper:
		return RoleShopper, true
	case RoleMerchant:
		return RoleMerchant, true
	}
	return "", false
}

type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Email        string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'vecino'"`
	FirstName    string  `gorm:"type:varchar(100);not null"`
	LastName     string  `gorm:"type:varchar(100);not null"`
	Phone        *string `gorm:"type:varchar(30)"`
	TokenVersion int     `gorm:"not null;default:0"`
	IsActive     bool    `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// 表示用のフルネーム
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return "Cliente"
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
