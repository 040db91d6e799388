package repository

import (
	"context"
	"time"

	"rootine/internal/domain"

	"gorm.io/gorm"
)

type GroupProofRepository struct {
	db *gorm.DB
}

func NewGroupProofRepository(db *gorm.DB) *GroupProofRepository {
	return &GroupProofRepository{db: db}
}

// Create appends a proof to the ledger
func (r *GroupProofRepository) Create(ctx context.Context, proof *domain.GroupProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

// CountInRange counts a member's proofs with start <= created_at < end
func (r *GroupProofRepository) CountInRange(ctx context.Context, groupID, userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GroupProof{}).
		Where("group_id = ? AND user_id = ? AND created_at >= ? AND created_at < ?", groupID, userID, start, end).
		Count(&count).Error
	return count, err
}

// CountPerMemberInRange counts proofs per user for the group in [start, end).
// Users without proofs are absent from the map.
func (r *GroupProofRepository) CountPerMemberInRange(ctx context.Context, groupID uint, start, end time.Time) (map[uint]int64, error) {
	type row struct {
		UserID uint
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.GroupProof{}).
		Select("user_id, COUNT(*) AS total").
		Where("group_id = ? AND created_at >= ? AND created_at < ?", groupID, start, end).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, c := range rows {
		counts[c.UserID] = c.Total
	}
	return counts, nil
}

// ListForUser returns a member's most recent proofs in the group
func (r *GroupProofRepository) ListForUser(ctx context.Context, groupID, userID uint, limit int) ([]domain.GroupProof, error) {
	var proofs []domain.GroupProof
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&proofs).Error
	return proofs, err
}

// ListSince returns every proof of the group created at or after since
func (r *GroupProofRepository) ListSince(ctx context.Context, groupID uint, since time.Time) ([]domain.GroupProof, error) {
	var proofs []domain.GroupProof
	err := r.db.WithContext(ctx).
		Select("id", "group_id", "user_id", "created_at").
		Where("group_id = ? AND created_at >= ?", groupID, since).
		Find(&proofs).Error
	return proofs, err
}
