package domain

import "time"

// Habit is a personal goal ("goal" in the app)
type Habit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Proofs      []Proof   `gorm:"foreignKey:HabitID" json:"proofs"`
}

// Proof is an individual habit proof
type Proof struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HabitID   uint      `gorm:"index;not null" json:"goal_id"`
	ImageURL  string    `gorm:"size:1024;not null" json:"image_url"`
	Rewarded  bool      `gorm:"not null;default:false" json:"rewarded"` // Whether it earned coins
	CreatedAt time.Time `json:"created_at"`
}
