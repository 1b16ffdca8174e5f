package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type User struct {
	ID    uint     `gorm:"primarykey" json:"id"`
	Name  string   `json:"name" gorm:"not null"`
	Email string   `json:"email" gorm:"not null;uniqueIndex"`
	Role  UserRole `json:"role" gorm:"not null;default:'student'"`
	// Balance is the withdrawable AZN amount; prize payouts may carry
	// fractional qepik values, hence the wide numeric scale.
	Balance   decimal.Decimal `json:"balance" gorm:"type:numeric(12,6);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
