package db

import (
	"rootine/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table the service owns, in dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Wallet{},
		&domain.Transaction{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.GroupProof{},
		&domain.GroupAward{},
		&domain.Habit{},
		&domain.Proof{},
		&domain.Flower{},
	}
}

// Migrate creates or updates tables, columns and indexes. The unique index
// on group_coin_distributions(group_id, award_date) must exist before the
// server takes traffic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
