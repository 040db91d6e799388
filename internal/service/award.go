package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	DailyRequired = 1 // Proofs each member needs per day
	BaseReward    = 5 // Coins per member for a group of one
)

// AwardStatus is the outcome of one award attempt
type AwardStatus string

const (
	AwardGranted        AwardStatus = "awarded"
	AwardAlreadyGranted AwardStatus = "already_awarded"
	AwardIncomplete     AwardStatus = "incomplete"
	AwardLostRace       AwardStatus = "lost_race"
	AwardFailed         AwardStatus = "failed"
)

// AwardResult reports what an award attempt did
type AwardResult struct {
	Status    AwardStatus `json:"status"`
	Day       string      `json:"day"`
	Amount    int64       `json:"amount,omitempty"` // Coins per member when granted
	MemberIDs []uint      `json:"-"`                // Credited members when granted
}

// Completion is the evaluation of one group for one day
type Completion struct {
	MemberIDs []uint
	Counts    map[uint]int64
	Complete  bool
}

// RewardPerMember is round(5 * (1.5 * (n - 1) + 1)) for a group of n
func RewardPerMember(members int) int64 {
	if members <= 0 {
		return 0
	}
	multiplier := 1.5*float64(members-1) + 1
	return int64(math.Round(BaseReward * multiplier))
}

// AwardService pays a group once per day when every member has proved
type AwardService struct {
	groups *repository.GroupRepository
	proofs *repository.GroupProofRepository
	awards *repository.AwardRepository
	now    func() time.Time
}

func NewAwardService(groups *repository.GroupRepository, proofs *repository.GroupProofRepository, awards *repository.AwardRepository) *AwardService {
	return &AwardService{groups: groups, proofs: proofs, awards: awards, now: utils.Now}
}

// WithClock replaces the clock used to pick the current day
func (s *AwardService) WithClock(now func() time.Time) *AwardService {
	s.now = now
	return s
}

// Evaluate checks whether every current member has proved today
func (s *AwardService) Evaluate(ctx context.Context, groupID uint) (*Completion, error) {
	return s.evaluate(ctx, groupID, s.now())
}

func (s *AwardService) evaluate(ctx context.Context, groupID uint, now time.Time) (*Completion, error) {
	members, err := s.groups.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	start, end := utils.DayRange(now)
	counts, err := s.proofs.CountPerMemberInRange(ctx, groupID, start, end)
	if err != nil {
		return nil, fmt.Errorf("count proofs: %w", err)
	}
	complete := len(members) > 0
	for _, id := range members {
		if counts[id] < DailyRequired {
			complete = false
			break
		}
	}
	return &Completion{MemberIDs: members, Counts: counts, Complete: complete}, nil
}

// AwardIfComplete credits every member once when the group completed today.
// Losing the race to a concurrent caller is not an error. Failures are
// logged and returned; nothing is retried.
func (s *AwardService) AwardIfComplete(ctx context.Context, groupID uint) (*AwardResult, error) {
	return s.AwardForDay(ctx, groupID, s.now())
}

// AwardForDay is AwardIfComplete for the calendar day containing at
func (s *AwardService) AwardForDay(ctx context.Context, groupID uint, at time.Time) (*AwardResult, error) {
	result, err := s.awardIfComplete(ctx, groupID, at)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"group_id": groupID,
			"day":      utils.DayKey(at),
			"error":    err.Error(),
		}).Error("Group award failed")
		return nil, err
	}
	return result, nil
}

func (s *AwardService) awardIfComplete(ctx context.Context, groupID uint, now time.Time) (*AwardResult, error) {
	day := utils.DayKey(now)
	result := &AwardResult{Day: day}

	exists, err := s.awards.Exists(ctx, groupID, day)
	if err != nil {
		return nil, fmt.Errorf("check award ledger: %w", err)
	}
	if exists {
		result.Status = AwardAlreadyGranted
		return result, nil
	}

	completion, err := s.evaluate(ctx, groupID, now)
	if err != nil {
		return nil, err
	}
	if !completion.Complete {
		result.Status = AwardIncomplete
		return result, nil
	}

	amount := RewardPerMember(len(completion.MemberIDs))
	award := &domain.GroupAward{GroupID: groupID, AwardDate: day, RewardAmount: amount, CreatedAt: now}
	fields := logrus.Fields{
		"group_id": groupID,
		"day":      day,
		"members":  len(completion.MemberIDs),
		"amount":   amount,
	}
	err = s.awards.Distribute(ctx, award, completion.MemberIDs)
	switch {
	case errors.Is(err, repository.ErrDuplicateAward):
		logrus.WithFields(fields).Debug("Group award already recorded by a concurrent request")
		result.Status = AwardLostRace
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("distribute award: %w", err)
	}

	logrus.WithFields(fields).Info("Group award granted")
	result.Status = AwardGranted
	result.Amount = amount
	result.MemberIDs = completion.MemberIDs
	return result, nil
}
