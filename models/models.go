package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User represents a client or admin account in the portal
type User struct {
	gorm.Model
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FullName    string    `json:"full_name"`
	CompanyName string    `json:"company_name"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role" gorm:"default:'client'"`
	IsBlocked   bool      `json:"is_blocked"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	LastLoginAt time.Time `json:"last_login_at"`
	GoogleID    string    `gorm:"default:null" json:"google_id"`

	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserOTP represents a one-time password for email verification and password reset
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;not null"`
	Code      string    `json:"code" gorm:"not null"`
	Purpose   string    `json:"purpose" gorm:"not null"` // registration, password_reset
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
