package repository

import (
	"context"
	"errors"

	"rootine/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MemberRow is a group member with display data
type MemberRow struct {
	UserID   uint
	Username string
}

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CodeExists reports whether a join code is taken
func (r *GroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Group{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// CreateWithOwner inserts the group and makes its creator the first member
func (r *GroupRepository) CreateWithOwner(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return addMember(tx, group.ID, group.CreatedBy)
	})
}

// FindByID returns the group, or nil when it does not exist
func (r *GroupRepository) FindByID(ctx context.Context, groupID uint) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).First(&group, groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByCode returns the group with that join code, or nil
func (r *GroupRepository) FindByCode(ctx context.Context, code string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// AddMember is idempotent; joining twice keeps the original row
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	return addMember(r.db.WithContext(ctx), groupID, userID)
}

func addMember(tx *gorm.DB, groupID, userID uint) error {
	member := domain.GroupMember{GroupID: groupID, UserID: userID}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// IsMember reports whether the user currently belongs to the group
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMemberIDs returns the current member set ordered by user id
func (r *GroupRepository) ListMemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListMembers returns members with their usernames, sorted by name
func (r *GroupRepository) ListMembers(ctx context.Context, groupID uint) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.db.WithContext(ctx).Table("group_members AS gm").
		Select("gm.user_id AS user_id, u.username AS username").
		Joins("JOIN users u ON u.id = gm.user_id").
		Where("gm.group_id = ?", groupID).
		Order("u.username ASC").
		Scan(&rows).Error
	return rows, err
}

// ListForUser returns the groups the user belongs to, newest first
func (r *GroupRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.created_at DESC").
		Order("groups.id DESC").
		Find(&groups).Error
	return groups, err
}
