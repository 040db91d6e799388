package repository

import (
	"context"
	"errors"
	"sort"

	"rootine/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByUser returns the user's wallet, or nil when there is none
func (r *WalletRepository) GetByUser(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// History returns one page of the wallet's transactions, newest first
func (r *WalletRepository) History(ctx context.Context, walletID uint, offset, limit int) ([]domain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Transaction{}).Where("wallet_id = ?", walletID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txs []domain.Transaction
	err := query.Order("created_at desc").Order("id desc").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}

// lockWallets selects the users' wallets FOR UPDATE in user id order so
// that concurrent callers lock rows in the same sequence.
func lockWallets(tx *gorm.DB, userIDs []uint) ([]domain.Wallet, error) {
	ids := uniqueSorted(userIDs)
	var wallets []domain.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ?", ids).
		Order("user_id").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	if len(wallets) != len(ids) {
		return nil, ErrWalletMissing
	}
	return wallets, nil
}

// applyDelta adds amount to every wallet and appends one transaction row
// per wallet. It must run inside the caller's transaction.
func applyDelta(tx *gorm.DB, wallets []domain.Wallet, amount int64, txType, reference string) error {
	if len(wallets) == 0 {
		return nil
	}
	ids := make([]uint, len(wallets))
	rows := make([]domain.Transaction, len(wallets))
	for i, w := range wallets {
		ids[i] = w.ID
		rows[i] = domain.Transaction{WalletID: w.ID, Amount: amount, Type: txType, Reference: reference}
	}
	res := tx.Model(&domain.Wallet{}).Where("id IN ?", ids).Update("coin", gorm.Expr("coin + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return ErrWalletMissing
	}
	return tx.Create(&rows).Error
}

func uniqueSorted(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
