package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/utils"

	"github.com/sirupsen/logrus"
)

// HabitProofReward is credited for the first proof of a habit each day
const HabitProofReward = 5

// HabitProofInput is one individual proof submission
type HabitProofInput struct {
	HabitID     uint
	UserID      uint
	Image       Image
	Description string
}

// HabitProofResult is the stored proof and the coins it earned
type HabitProofResult struct {
	Proof domain.Proof `json:"proof"`
	Key   string       `json:"key"`
	Coins int64        `json:"coins"`
}

type HabitService struct {
	habits   *repository.HabitRepository
	verifier Verifier
	store    ImageStore
	now      func() time.Time
}

func NewHabitService(habits *repository.HabitRepository, verifier Verifier, store ImageStore) *HabitService {
	return &HabitService{habits: habits, verifier: verifier, store: store, now: utils.Now}
}

// WithClock replaces the clock used to timestamp proofs
func (s *HabitService) WithClock(now func() time.Time) *HabitService {
	s.now = now
	return s
}

func (s *HabitService) Create(ctx context.Context, userID uint, title, description string) (*domain.Habit, error) {
	habit := &domain.Habit{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
		Proofs:      []domain.Proof{},
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

func (s *HabitService) List(ctx context.Context, userID uint) ([]domain.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

// ListProofs returns the proofs of a habit the user owns
func (s *HabitService) ListProofs(ctx context.Context, userID, habitID uint) ([]domain.Proof, error) {
	if _, err := s.owned(ctx, userID, habitID); err != nil {
		return nil, err
	}
	return s.habits.ListProofs(ctx, habitID)
}

// SubmitProof verifies and stores the image, then records the proof. Only
// the first proof of the habit on a day earns coins.
func (s *HabitService) SubmitProof(ctx context.Context, in HabitProofInput) (*HabitProofResult, error) {
	habit, err := s.owned(ctx, in.UserID, in.HabitID)
	if err != nil {
		return nil, err
	}
	if err := in.Image.validate(); err != nil {
		return nil, err
	}
	description := in.Description
	if description == "" {
		description = habit.Description
	}
	if err := verifyImage(ctx, s.verifier, in.Image, habit.Title, description); err != nil {
		return nil, err
	}
	key := objectKey("proofs", in.UserID, in.HabitID, in.Image.ContentType)
	url, err := storeImage(ctx, s.store, key, in.Image)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, end := utils.DayRange(now)
	proof := &domain.Proof{ImageURL: url, CreatedAt: now}
	credited, err := s.habits.AddProof(ctx, habit, proof, HabitProofReward, start, end)
	if err != nil {
		return nil, fmt.Errorf("save proof: %w", err)
	}
	result := &HabitProofResult{Proof: *proof, Key: key}
	if credited {
		result.Coins = HabitProofReward
	}
	logrus.WithFields(logrus.Fields{
		"habit_id": habit.ID,
		"user_id":  in.UserID,
		"proof_id": proof.ID,
		"coins":    result.Coins,
	}).Info("Habit proof recorded")
	return result, nil
}

func (s *HabitService) owned(ctx context.Context, userID, habitID uint) (*domain.Habit, error) {
	habit, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("load habit: %w", err)
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}
	if habit.UserID != userID {
		return nil, ErrNotOwner
	}
	return habit, nil
}
