package domain

// Transaction types
const (
	TxGroupAward = "group_award" // Daily group completion reward
	TxHabitProof = "habit_proof" // First proof of a habit on a day
	TxPurchase   = "purchase"    // Garden shop purchase
)

// Transaction is one coin movement on a wallet
type Transaction struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                   // Primary key
	WalletID  uint   `gorm:"index;not null" json:"wallet_id"`        // Wallet the coins moved on
	Amount    int64  `gorm:"not null" json:"amount"`                 // Signed amount, negative for debits
	Type      string `gorm:"size:32;index" json:"type"`              // One of the Tx* constants
	Reference string `gorm:"size:64" json:"reference"`               // What caused it, e.g. group:12:2026-10-15
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}
