package repository

import (
	"context"
	"errors"
	"strconv"

	"rootine/internal/domain"

	"gorm.io/gorm"
)

// ErrCellOccupied means another of the user's items sits on the target cell
var ErrCellOccupied = errors.New("target pot is occupied")

type GardenRepository struct {
	db *gorm.DB
}

func NewGardenRepository(db *gorm.DB) *GardenRepository {
	return &GardenRepository{db: db}
}

// Purchase debits price from the buyer's wallet and plants the item. The
// wallet row stays locked until the item is inserted.
func (r *GardenRepository) Purchase(ctx context.Context, flower *domain.Flower, price int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets, err := lockWallets(tx, []uint{flower.UserID})
		if err != nil {
			return err
		}
		if wallets[0].Coin < price {
			return ErrInsufficientCoins
		}
		if err := checkCellFree(tx, flower.UserID, flower.ID, flower.X, flower.Y); err != nil {
			return err
		}
		if err := tx.Create(flower).Error; err != nil {
			return err
		}
		ref := "flower:" + strconv.FormatUint(uint64(flower.ID), 10)
		return applyDelta(tx, wallets, -price, domain.TxPurchase, ref)
	})
}

// FindByID returns the item, or nil when it does not exist
func (r *GardenRepository) FindByID(ctx context.Context, id uint) (*domain.Flower, error) {
	var flower domain.Flower
	err := r.db.WithContext(ctx).First(&flower, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flower, nil
}

// ListByUser returns every item in the user's garden
func (r *GardenRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Flower, error) {
	var flowers []domain.Flower
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&flowers).Error
	return flowers, err
}

// Move places the item on (x, y) unless another of the owner's items is there
func (r *GardenRepository) Move(ctx context.Context, flower *domain.Flower, x, y int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCellFree(tx, flower.UserID, flower.ID, x, y); err != nil {
			return err
		}
		flower.X, flower.Y = x, y
		return tx.Model(flower).Updates(map[string]any{"x": x, "y": y}).Error
	})
}

func checkCellFree(tx *gorm.DB, userID, exceptID uint, x, y int) error {
	var conflicts int64
	if err := tx.Model(&domain.Flower{}).
		Where("user_id = ? AND x = ? AND y = ? AND id <> ?", userID, x, y, exceptID).
		Count(&conflicts).Error; err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrCellOccupied
	}
	return nil
}

// SetImage replaces the picture shown on a sign
func (r *GardenRepository) SetImage(ctx context.Context, flower *domain.Flower, imageURL string) error {
	flower.Image = &imageURL
	return r.db.WithContext(ctx).Model(flower).Update("image", imageURL).Error
}

func (r *GardenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Flower{}, id).Error
}
