package repository

import (
	"context"
	"strconv"

	"rootine/internal/domain"

	"gorm.io/gorm"
)

// AwardFilter narrows the admin award listing
type AwardFilter struct {
	GroupID uint
	From    string // inclusive YYYY-MM-DD
	To      string // inclusive YYYY-MM-DD
}

type AwardRepository struct {
	db *gorm.DB
}

func NewAwardRepository(db *gorm.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// Exists reports whether the group was already paid for day
func (r *AwardRepository) Exists(ctx context.Context, groupID uint, day string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GroupAward{}).
		Where("group_id = ? AND award_date = ?", groupID, day).
		Count(&count).Error
	return count > 0, err
}

// Distribute records the award and credits every member in one transaction.
// When another caller already recorded the same (group, day) it returns
// ErrDuplicateAward and nothing is written.
func (r *AwardRepository) Distribute(ctx context.Context, award *domain.GroupAward, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(award).Error; err != nil {
			if IsDuplicateKey(err) {
				return ErrDuplicateAward
			}
			return err
		}
		wallets, err := lockWallets(tx, memberIDs)
		if err != nil {
			return err
		}
		ref := "group:" + strconv.FormatUint(uint64(award.GroupID), 10) + ":" + award.AwardDate
		return applyDelta(tx, wallets, award.RewardAmount, domain.TxGroupAward, ref)
	})
}

// List returns one page of awards, newest day first
func (r *AwardRepository) List(ctx context.Context, f AwardFilter, offset, limit int) ([]domain.GroupAward, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.GroupAward{})
	if f.GroupID != 0 {
		query = query.Where("group_id = ?", f.GroupID)
	}
	if f.From != "" {
		query = query.Where("award_date >= ?", f.From)
	}
	if f.To != "" {
		query = query.Where("award_date <= ?", f.To)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var awards []domain.GroupAward
	err := query.Order("award_date DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&awards).Error
	return awards, total, err
}
