package service

import (
	"context"
	"fmt"
	"time"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/utils"

	"github.com/sirupsen/logrus"
)

// GroupProofInput is one group proof submission
type GroupProofInput struct {
	GroupID     uint
	UserID      uint
	Image       Image
	Description string // Optional; defaults to the group's habit description
}

// GroupProofResult is a stored proof plus the award outcome it triggered
type GroupProofResult struct {
	URL   string       `json:"url"`
	Key   string       `json:"key"`
	Award *AwardResult `json:"award"`
}

// ProofService gates group proof submissions
type ProofService struct {
	groups   *repository.GroupRepository
	proofs   *repository.GroupProofRepository
	awards   *AwardService
	verifier Verifier
	store    ImageStore
	now      func() time.Time
}

func NewProofService(groups *repository.GroupRepository, proofs *repository.GroupProofRepository, awards *AwardService, verifier Verifier, store ImageStore) *ProofService {
	return &ProofService{groups: groups, proofs: proofs, awards: awards, verifier: verifier, store: store, now: utils.Now}
}

// WithClock replaces the clock used to timestamp proofs
func (s *ProofService) WithClock(now func() time.Time) *ProofService {
	s.now = now
	return s
}

// SubmitGroupProof checks membership and the daily quota, verifies and
// stores the image, records the proof and then tries to award the group.
// Nothing is written when any check fails. A failed award does not fail
// the submission.
func (s *ProofService) SubmitGroupProof(ctx context.Context, in GroupProofInput) (*GroupProofResult, error) {
	member, err := s.groups.IsMember(ctx, in.GroupID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, ErrNotMember
	}

	start, end := utils.DayRange(s.now())
	today, err := s.proofs.CountInRange(ctx, in.GroupID, in.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("count proofs: %w", err)
	}
	if today >= DailyRequired {
		return nil, ErrDailyLimitReached
	}

	if err := in.Image.validate(); err != nil {
		return nil, err
	}
	group, err := s.groups.FindByID(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	description := in.Description
	if description == "" {
		description = group.HabitDescription
	}
	if err := verifyImage(ctx, s.verifier, in.Image, group.Name, description); err != nil {
		return nil, err
	}

	key := objectKey("group-proofs", in.GroupID, in.UserID, in.Image.ContentType)
	url, err := storeImage(ctx, s.store, key, in.Image)
	if err != nil {
		return nil, err
	}

	// Stamped after the slow calls so the proof and the award share a day
	proof := &domain.GroupProof{GroupID: in.GroupID, UserID: in.UserID, ImageURL: url, CreatedAt: s.now()}
	if err := s.proofs.Create(ctx, proof); err != nil {
		return nil, fmt.Errorf("save proof: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"group_id": in.GroupID,
		"user_id":  in.UserID,
		"proof_id": proof.ID,
	}).Info("Group proof recorded")

	award, err := s.awards.AwardForDay(ctx, in.GroupID, proof.CreatedAt)
	if err != nil {
		award = &AwardResult{Status: AwardFailed, Day: utils.DayKey(proof.CreatedAt)}
	}
	return &GroupProofResult{URL: url, Key: key, Award: award}, nil
}
