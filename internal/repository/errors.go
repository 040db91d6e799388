package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateAward means the group was already paid for that day
	ErrDuplicateAward = errors.New("group already awarded for this day")
	// ErrWalletMissing means a credited user has no wallet row
	ErrWalletMissing = errors.New("wallet not found")
	// ErrInsufficientCoins means a debit would make the balance negative
	ErrInsufficientCoins = errors.New("not enough coins")
)

// IsDuplicateKey reports whether err is a unique constraint violation.
// With TranslateError enabled GORM already maps these to
// gorm.ErrDuplicatedKey; the driver codes cover raw errors that bypass the
// translator (PostgreSQL SQLSTATE 23505, MySQL error 1062).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
