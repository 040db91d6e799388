package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	codeAlphabet     = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength       = 6
	codeAttempts     = 5
	StreakWindowDays = 180
	PhotoHistory     = 100
)

// MemberStatus is one member row of the group detail view
type MemberStatus struct {
	UserID    uint   `json:"id"`
	Username  string `json:"name"`
	DoneToday bool   `json:"doneToday"`
	IsSelf    bool   `json:"isSelf"`
}

// GroupDetail is what a member sees when opening a group
type GroupDetail struct {
	Group         domain.Group        `json:"group"`
	UploadedToday bool                `json:"uploadedToday"`
	Streak        int                 `json:"streak"`
	Photos        []domain.GroupProof `json:"photos"`
	Members       []MemberStatus      `json:"members"`
}

type GroupService struct {
	groups *repository.GroupRepository
	proofs *repository.GroupProofRepository
	now    func() time.Time
}

func NewGroupService(groups *repository.GroupRepository, proofs *repository.GroupProofRepository) *GroupService {
	return &GroupService{groups: groups, proofs: proofs, now: utils.Now}
}

// WithClock replaces the clock used to pick the current day
func (s *GroupService) WithClock(now func() time.Time) *GroupService {
	s.now = now
	return s
}

// Create makes a group with a fresh join code and its creator as first member
func (s *GroupService) Create(ctx context.Context, userID uint, name, description string) (*domain.Group, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := generateCode()
		taken, err := s.groups.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check code: %w", err)
		}
		if taken {
			continue
		}
		group := &domain.Group{
			Code:             code,
			CreatedBy:        userID,
			Name:             strings.TrimSpace(name),
			HabitDescription: strings.TrimSpace(description),
			CreatedAt:        s.now(),
		}
		err = s.groups.CreateWithOwner(ctx, group)
		if repository.IsDuplicateKey(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create group: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"group_id": group.ID,
			"user_id":  userID,
			"code":     code,
		}).Info("Group created")
		return group, nil
	}
	return nil, ErrGroupCodeExhausted
}

// Join adds the user to the group with that code. Joining twice is a no-op.
func (s *GroupService) Join(ctx context.Context, userID uint, code string) (*domain.Group, error) {
	group, err := s.groups.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("find group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := s.groups.AddMember(ctx, group.ID, userID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"group_id": group.ID,
		"user_id":  userID,
	}).Info("Group joined")
	return group, nil
}

// ListMine returns the user's groups
func (s *GroupService) ListMine(ctx context.Context, userID uint) ([]domain.Group, error) {
	return s.groups.ListForUser(ctx, userID)
}

// Detail returns the member view of a group
func (s *GroupService) Detail(ctx context.Context, groupID, userID uint) (*GroupDetail, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, ErrNotMember
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	now := s.now()
	start, end := utils.DayRange(now)
	counts, err := s.proofs.CountPerMemberInRange(ctx, groupID, start, end)
	if err != nil {
		return nil, fmt.Errorf("count proofs: %w", err)
	}
	rows, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	members := make([]MemberStatus, len(rows))
	memberIDs := make([]uint, len(rows))
	for i, row := range rows {
		memberIDs[i] = row.UserID
		members[i] = MemberStatus{
			UserID:    row.UserID,
			Username:  row.Username,
			DoneToday: counts[row.UserID] > 0,
			IsSelf:    row.UserID == userID,
		}
	}

	history, err := s.proofs.ListSince(ctx, groupID, start.AddDate(0, 0, -StreakWindowDays))
	if err != nil {
		return nil, fmt.Errorf("load streak window: %w", err)
	}
	photos, err := s.proofs.ListForUser(ctx, groupID, userID, PhotoHistory)
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}

	return &GroupDetail{
		Group:         *group,
		UploadedToday: counts[userID] > 0,
		Streak:        ComputeStreak(memberIDs, history, now, StreakWindowDays),
		Photos:        photos,
		Members:       members,
	}, nil
}

// ComputeStreak counts consecutive days ending on today's day on which every
// member in memberIDs had at least one proof. It looks back at most window
// days and is 0 when today is incomplete.
func ComputeStreak(memberIDs []uint, proofs []domain.GroupProof, today time.Time, window int) int {
	if len(memberIDs) == 0 {
		return 0
	}
	loc := today.Location()
	done := make(map[string]map[uint]struct{})
	for _, p := range proofs {
		day := utils.DayKey(p.CreatedAt.In(loc))
		if done[day] == nil {
			done[day] = make(map[uint]struct{})
		}
		done[day][p.UserID] = struct{}{}
	}

	streak := 0
	for i := 0; i <= window; i++ {
		users := done[utils.DayKey(today.AddDate(0, 0, -i))]
		for _, id := range memberIDs {
			if _, ok := users[id]; !ok {
				return streak
			}
		}
		streak++
	}
	return streak
}

// NormalizeCode trims and upper-cases a join code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
