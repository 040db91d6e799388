package domain

import "time"

// Group is a set of users sharing one daily habit and a pooled reward
type Group struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Code             string    `gorm:"size:12;uniqueIndex;not null" json:"code"` // Join code
	CreatedBy        uint      `gorm:"index;not null" json:"created_by"`
	Name             string    `gorm:"size:64;not null" json:"name"`
	HabitDescription string    `gorm:"size:256;not null" json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

// GroupMember records that a user belongs to a group. Rows are never updated.
type GroupMember struct {
	GroupID  uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// GroupProof is one append-only proof submission. It counts for the
// calendar day of CreatedAt in the server location.
type GroupProof struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index:idx_group_proof_day,priority:1" json:"group_id"`
	UserID    uint      `gorm:"not null;index:idx_group_proof_day,priority:2" json:"user_id"`
	ImageURL  string    `gorm:"size:1024;not null" json:"url"`
	CreatedAt time.Time `gorm:"not null;index:idx_group_proof_day,priority:3" json:"created_at"`
}
