package service

import (
	"context"
	"fmt"

	"rootine/internal/domain"
	"rootine/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	GridSize         = 8
	PlaceholderImage = "https://placehold.co/256x256"
)

// FlowerPrices is the shop catalogue in coins
var FlowerPrices = map[string]int64{
	"flower1":   10,
	"flower2":   15,
	"flower3":   20,
	"imageSign": 25,
	"tallImage": 40,
}

// signTypes carry a user supplied picture
var signTypes = map[string]bool{
	"imageSign": true,
	"tallImage": true,
}

// InGrid reports whether (x, y) is a cell of the garden
func InGrid(x, y int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize
}

type GardenService struct {
	garden *repository.GardenRepository
}

func NewGardenService(garden *repository.GardenRepository) *GardenService {
	return &GardenService{garden: garden}
}

// Purchase debits the item's price and plants it at (x, y)
func (s *GardenService) Purchase(ctx context.Context, userID uint, flowerID string, x, y int) (*domain.Flower, error) {
	price, ok := FlowerPrices[flowerID]
	if !ok {
		return nil, ErrUnknownItem
	}
	if !InGrid(x, y) {
		return nil, ErrOutOfBounds
	}
	flower := &domain.Flower{UserID: userID, Name: flowerID, Type: flowerID, X: x, Y: y}
	if signTypes[flowerID] {
		placeholder := PlaceholderImage
		flower.Image = &placeholder
	}
	if err := s.garden.Purchase(ctx, flower, price); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"flower_id": flower.ID,
		"type":      flowerID,
		"price":     price,
	}).Info("Garden item purchased")
	return flower, nil
}

func (s *GardenService) List(ctx context.Context, userID uint) ([]domain.Flower, error) {
	return s.garden.ListByUser(ctx, userID)
}

// Move relocates one of the user's items
func (s *GardenService) Move(ctx context.Context, userID, id uint, x, y int) (*domain.Flower, error) {
	if !InGrid(x, y) {
		return nil, ErrOutOfBounds
	}
	flower, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.garden.Move(ctx, flower, x, y); err != nil {
		return nil, err
	}
	return flower, nil
}

// SetImage changes the picture of a sign
func (s *GardenService) SetImage(ctx context.Context, userID, id uint, imageURL string) (*domain.Flower, error) {
	flower, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !signTypes[flower.Type] {
		return nil, ErrNotSign
	}
	if err := s.garden.SetImage(ctx, flower, imageURL); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	return flower, nil
}

// Delete removes one of the user's items. Coins are not refunded.
func (s *GardenService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.garden.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *GardenService) owned(ctx context.Context, userID, id uint) (*domain.Flower, error) {
	flower, err := s.garden.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if flower == nil {
		return nil, ErrItemNotFound
	}
	if flower.UserID != userID {
		return nil, ErrNotOwner
	}
	return flower, nil
}
