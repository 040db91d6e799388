package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day0 = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fakeVerifier struct {
	ok       bool
	err      error
	calls    int
	title    string
	onVerify func() // Runs during the call, e.g. to move the clock
}

func (f *fakeVerifier) Verify(_ context.Context, _ string, title, _ string) (bool, error) {
	f.calls++
	f.title = title
	if f.onVerify != nil {
		f.onVerify()
	}
	return f.ok, f.err
}

type fakeStore struct {
	mu   sync.Mutex
	err  error
	keys []string
}

func (f *fakeStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://img.test/" + key, nil
}

type fixture struct {
	db       *gorm.DB
	clock    *clock
	groups   *repository.GroupRepository
	proofs   *repository.GroupProofRepository
	awards   *repository.AwardRepository
	verifier *fakeVerifier
	store    *fakeStore
	award    *AwardService
	submit   *ProofService
	group    *GroupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	f := &fixture{
		db:       conn,
		clock:    &clock{t: day0},
		groups:   repository.NewGroupRepository(conn),
		proofs:   repository.NewGroupProofRepository(conn),
		awards:   repository.NewAwardRepository(conn),
		verifier: &fakeVerifier{ok: true},
		store:    &fakeStore{},
	}
	f.award = NewAwardService(f.groups, f.proofs, f.awards).WithClock(f.clock.Now)
	f.submit = NewProofService(f.groups, f.proofs, f.award, f.verifier, f.store).WithClock(f.clock.Now)
	f.group = NewGroupService(f.groups, f.proofs).WithClock(f.clock.Now)
	return f
}

// newGroup creates a group owned by the first user with the rest joined
func (f *fixture) newGroup(t *testing.T, users ...domain.User) domain.Group {
	t.Helper()
	group, err := f.group.Create(context.Background(), users[0].ID, "Morning run", "Run 5km")
	require.NoError(t, err)
	for _, u := range users[1:] {
		_, err := f.group.Join(context.Background(), u.ID, group.Code)
		require.NoError(t, err)
	}
	return *group
}

// prove inserts a proof row directly at the given time
func (f *fixture) prove(t *testing.T, groupID, userID uint, at time.Time) {
	t.Helper()
	require.NoError(t, f.proofs.Create(context.Background(), &domain.GroupProof{
		GroupID:   groupID,
		UserID:    userID,
		ImageURL:  "https://img.test/p.jpg",
		CreatedAt: at,
	}))
}

func (f *fixture) countAwards(t *testing.T, groupID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.GroupAward{}).Where("group_id = ?", groupID).Count(&n).Error)
	return n
}

func (f *fixture) countProofs(t *testing.T, groupID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.GroupProof{}).Where("group_id = ?", groupID).Count(&n).Error)
	return n
}

func pngImage() Image {
	return Image{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 1, 2, 3}}
}

var errBoom = errors.New("boom")
