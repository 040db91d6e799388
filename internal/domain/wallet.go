package domain

// Wallet holds a user's coin balance. Coin is only changed through
// credits and debits that also append a Transaction row.
type Wallet struct {
	ID     uint  `gorm:"primaryKey" json:"id"`           // Primary key
	UserID uint  `gorm:"uniqueIndex" json:"user_id"`     // Foreign key to User
	Coin   int64 `gorm:"not null;default:0" json:"coin"` // Coin balance, never negative
}
