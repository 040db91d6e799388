package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"rootine/internal/domain"
	"rootine/internal/utils"

	"gorm.io/gorm"
)

type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

// FindByID returns the habit, or nil when it does not exist
func (r *HabitRepository) FindByID(ctx context.Context, habitID uint) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.db.WithContext(ctx).First(&habit, habitID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// ListByUser returns the user's habits with their proofs, newest proof first
func (r *HabitRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Habit, error) {
	var habits []domain.Habit
	err := r.db.WithContext(ctx).
		Preload("Proofs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&habits).Error
	return habits, err
}

// ListProofs returns a habit's proofs, newest first
func (r *HabitRepository) ListProofs(ctx context.Context, habitID uint) ([]domain.Proof, error) {
	var proofs []domain.Proof
	err := r.db.WithContext(ctx).Where("habit_id = ?", habitID).Order("created_at DESC").Find(&proofs).Error
	return proofs, err
}

// AddProof stores the proof and, when it is the habit's first rewarded proof
// in [dayStart, dayEnd), credits reward coins to the owner in the same
// transaction. It reports whether coins were credited.
func (r *HabitRepository) AddProof(ctx context.Context, habit *domain.Habit, proof *domain.Proof, reward int64, dayStart, dayEnd time.Time) (bool, error) {
	credited := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets, err := lockWallets(tx, []uint{habit.UserID})
		if err != nil {
			return err
		}
		var rewardedToday int64
		if err := tx.Model(&domain.Proof{}).
			Where("habit_id = ? AND rewarded = ? AND created_at >= ? AND created_at < ?", habit.ID, true, dayStart, dayEnd).
			Count(&rewardedToday).Error; err != nil {
			return err
		}
		proof.HabitID = habit.ID
		proof.Rewarded = rewardedToday == 0 && reward > 0
		if err := tx.Create(proof).Error; err != nil {
			return err
		}
		if !proof.Rewarded {
			return nil
		}
		ref := "habit:" + strconv.FormatUint(uint64(habit.ID), 10) + ":" + utils.DayKey(proof.CreatedAt)
		if err := applyDelta(tx, wallets, reward, domain.TxHabitProof, ref); err != nil {
			return err
		}
		credited = true
		return nil
	})
	return credited, err
}
