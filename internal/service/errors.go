package service

import (
	"errors"

	"rootine/internal/repository"
)

var (
	ErrNotMember            = errors.New("not a member of this group")
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupCodeExhausted   = errors.New("could not allocate a group code")
	ErrDailyLimitReached    = errors.New("daily submission limit reached")
	ErrInvalidImage         = errors.New("invalid image")
	ErrVerificationRejected = errors.New("image verification failed")
	ErrStorage              = errors.New("image storage failed")
	ErrHabitNotFound        = errors.New("habit not found")
	ErrNotOwner             = errors.New("not the owner")
	ErrItemNotFound         = errors.New("item not found")
	ErrUnknownItem          = errors.New("unknown flower id")
	ErrOutOfBounds          = errors.New("target position out of bounds")
	ErrNotSign              = errors.New("item is not an image sign")

	ErrInsufficientCoins = repository.ErrInsufficientCoins
	ErrCellOccupied      = repository.ErrCellOccupied
)
