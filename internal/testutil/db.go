// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"rootine/internal/db"
	"rootine/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table
// migrated. A single connection keeps the database alive and serialises
// transactions the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(conn))
	return conn
}

// CreateUser inserts a user with a wallet holding coin
func CreateUser(t *testing.T, conn *gorm.DB, username string, coin int64) domain.User {
	t.Helper()
	user := domain.User{Username: username, Password: "x"}
	require.NoError(t, conn.Omit("Wallet").Create(&user).Error)
	user.Wallet = domain.Wallet{UserID: user.ID, Coin: coin}
	require.NoError(t, conn.Create(&user.Wallet).Error)
	return user
}

// Coin returns the user's current balance
func Coin(t *testing.T, conn *gorm.DB, userID uint) int64 {
	t.Helper()
	var wallet domain.Wallet
	require.NoError(t, conn.Where("user_id = ?", userID).First(&wallet).Error)
	return wallet.Coin
}
