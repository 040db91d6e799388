package domain

import "time"

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                                   // Primary key
	Username  string    `gorm:"size:64;unique;not null" json:"username"`                                // Unique username
	Password  string    `gorm:"not null" json:"-"`                                                      // Hashed password
	Role      string    `gorm:"size:16;default:user" json:"role"`                                       // Role: user or admin
	Wallet    Wallet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"wallet,omitempty"` // Coin wallet, created with the user
	CreatedAt time.Time `json:"created_at"`
}
