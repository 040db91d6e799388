package domain

import "time"

// Flower is a decorative item placed on a user's garden grid
type Flower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:32;not null" json:"name"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Image     *string   `gorm:"size:1024" json:"image"`
	X         int       `gorm:"not null" json:"-"`
	Y         int       `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position returns the grid cell as [x, y]
func (f Flower) Position() [2]int {
	return [2]int{f.X, f.Y}
}
