package domain

import "time"

// GroupAward marks that a group was paid for a calendar day. The unique
// index on (group_id, award_date) is what stops a second payout.
type GroupAward struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GroupID      uint      `gorm:"not null;uniqueIndex:uk_group_award_day,priority:1" json:"group_id"`
	AwardDate    string    `gorm:"size:10;not null;uniqueIndex:uk_group_award_day,priority:2" json:"award_date"` // YYYY-MM-DD
	RewardAmount int64     `gorm:"not null" json:"reward_amount"`                                                // Coins credited to each member
	CreatedAt    time.Time `json:"created_at"`
}

func (GroupAward) TableName() string {
	return "group_coin_distributions"
}
