package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"rootine/internal/domain"
	"rootine/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRewardPerMember(t *testing.T) {
	tests := []struct {
		members int
		want    int64
	}{
		{0, 0},
		{1, 5},
		{2, 13},
		{3, 20},
		{4, 28},
		{5, 35},
		{10, 73},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RewardPerMember(tt.members), "members=%d", tt.members)
	}
}

func TestAwardIfComplete_GrantsOncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 0)
	c := testutil.CreateUser(t, f.db, "carol", 7)
	g := f.newGroup(t, a, b, c)

	f.prove(t, g.ID, a.ID, day0)
	f.prove(t, g.ID, b.ID, day0)
	res, err := f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)
	assert.Zero(t, f.countAwards(t, g.ID))

	f.prove(t, g.ID, c.ID, day0)
	res, err = f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardGranted, res.Status)
	assert.Equal(t, int64(20), res.Amount)
	assert.Equal(t, "2026-10-15", res.Day)
	assert.ElementsMatch(t, []uint{a.ID, b.ID, c.ID}, res.MemberIDs)

	assert.Equal(t, int64(20), testutil.Coin(t, f.db, a.ID))
	assert.Equal(t, int64(20), testutil.Coin(t, f.db, b.ID))
	assert.Equal(t, int64(27), testutil.Coin(t, f.db, c.ID))

	res, err = f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardAlreadyGranted, res.Status)
	assert.Equal(t, int64(1), f.countAwards(t, g.ID))
	assert.Equal(t, int64(20), testutil.Coin(t, f.db, a.ID))

	var txs []domain.Transaction
	require.NoError(t, f.db.Where("type = ?", domain.TxGroupAward).Find(&txs).Error)
	assert.Len(t, txs, 3)
	for _, tx := range txs {
		assert.Equal(t, int64(20), tx.Amount)
		assert.Equal(t, fmt.Sprintf("group:%d:2026-10-15", g.ID), tx.Reference)
	}
}

func TestAwardIfComplete_NextDayStartsFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 0)
	g := f.newGroup(t, a, b)

	f.prove(t, g.ID, a.ID, day0)
	f.prove(t, g.ID, b.ID, day0)
	res, err := f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, AwardGranted, res.Status)

	day1 := day0.AddDate(0, 0, 1)
	f.clock.Set(day1)
	res, err = f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)

	f.prove(t, g.ID, a.ID, day1)
	f.prove(t, g.ID, b.ID, day1)
	res, err = f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardGranted, res.Status)
	assert.Equal(t, "2026-10-16", res.Day)
	assert.Equal(t, int64(26), testutil.Coin(t, f.db, a.ID))
	assert.Equal(t, int64(2), f.countAwards(t, g.ID))
}

func TestAwardIfComplete_ProofAtMidnightBelongsToNewDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 0)
	g := f.newGroup(t, a)

	start := day0.Truncate(24 * time.Hour)
	f.prove(t, g.ID, a.ID, start.Add(-time.Second))
	res, err := f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)

	f.prove(t, g.ID, a.ID, start)
	res, err = f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardGranted, res.Status)
	assert.Equal(t, int64(5), res.Amount)
}

func TestAwardIfComplete_LateJoinerBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 0)
	g := f.newGroup(t, a)

	f.prove(t, g.ID, a.ID, day0)
	_, err := f.group.Join(ctx, b.ID, g.Code)
	require.NoError(t, err)

	res, err := f.award.AwardIfComplete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)
	assert.Zero(t, testutil.Coin(t, f.db, a.ID))
}

func TestEvaluate_EmptyGroupIsNeverComplete(t *testing.T) {
	f := newFixture(t)
	group := domain.Group{Code: "EMPTY1", CreatedBy: 99, Name: "ghost", HabitDescription: "nothing"}
	require.NoError(t, f.db.Create(&group).Error)

	completion, err := f.award.Evaluate(context.Background(), group.ID)
	require.NoError(t, err)
	assert.False(t, completion.Complete)
	assert.Empty(t, completion.MemberIDs)

	res, err := f.award.AwardIfComplete(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)
	assert.Zero(t, f.countAwards(t, group.ID))
}

func TestAwardIfComplete_ConcurrentCallersPayOnce(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 0)
	c := testutil.CreateUser(t, f.db, "carol", 0)
	g := f.newGroup(t, a, b, c)
	for _, u := range []domain.User{a, b, c} {
		f.prove(t, g.ID, u.ID, day0)
	}

	const callers = 8
	var wg sync.WaitGroup
	statuses := make(chan AwardStatus, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.award.AwardIfComplete(context.Background(), g.ID)
			if assert.NoError(t, err) {
				statuses <- res.Status
			}
		}()
	}
	wg.Wait()
	close(statuses)

	granted := 0
	for s := range statuses {
		switch s {
		case AwardGranted:
			granted++
		case AwardAlreadyGranted, AwardLostRace:
		default:
			t.Errorf("unexpected status %q", s)
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, int64(1), f.countAwards(t, g.ID))
	for _, u := range []domain.User{a, b, c} {
		assert.Equal(t, int64(20), testutil.Coin(t, f.db, u.ID))
	}
}

func TestAwardIfComplete_MissingWalletRollsBack(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 0)
	g := f.newGroup(t, a, b)
	f.prove(t, g.ID, a.ID, day0)
	f.prove(t, g.ID, b.ID, day0)
	require.NoError(t, f.db.Where("user_id = ?", b.ID).Delete(&domain.Wallet{}).Error)

	_, err := f.award.AwardIfComplete(context.Background(), g.ID)
	require.Error(t, err)
	assert.Zero(t, f.countAwards(t, g.ID))
	assert.Zero(t, testutil.Coin(t, f.db, a.ID))
}

func TestAwardForDay_UsesTheProofDay(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateUser(t, f.db, "alice", 0)
	g := f.newGroup(t, a)
	late := time.Date(2026, 10, 15, 23, 59, 59, 0, time.UTC)
	f.prove(t, g.ID, a.ID, late)
	f.clock.Set(late.Add(time.Minute))

	res, err := f.award.AwardIfComplete(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardIncomplete, res.Status)
	assert.Equal(t, "2026-10-16", res.Day)

	res, err = f.award.AwardForDay(context.Background(), g.ID, late)
	require.NoError(t, err)
	assert.Equal(t, AwardGranted, res.Status)
	assert.Equal(t, "2026-10-15", res.Day)
	assert.Equal(t, int64(5), testutil.Coin(t, f.db, a.ID))
}

func TestAwardIfComplete_LostRaceWritesNothing(t *testing.T) {
	f := newFixture(t)
	a := testutil.CreateUser(t, f.db, "alice", 0)
	b := testutil.CreateUser(t, f.db, "bob", 3)
	g := f.newGroup(t, a, b)
	f.prove(t, g.ID, a.ID, day0)
	f.prove(t, g.ID, b.ID, day0)

	// A concurrent request records the award right after this caller's
	// ledger check and before its own insert.
	var once sync.Once
	awardTable := domain.GroupAward{}.TableName()
	require.NoError(t, f.db.Callback().Query().After("gorm:query").Register("test:rival_award", func(tx *gorm.DB) {
		if tx.Statement.Table != awardTable {
			return
		}
		once.Do(func() {
			rival := domain.GroupAward{GroupID: g.ID, AwardDate: "2026-10-15", RewardAmount: 13, CreatedAt: day0}
			require.NoError(t, f.db.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
		})
	}))

	res, err := f.award.AwardIfComplete(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, AwardLostRace, res.Status)
	assert.Zero(t, res.Amount)
	assert.Empty(t, res.MemberIDs)

	assert.Equal(t, int64(1), f.countAwards(t, g.ID))
	assert.Equal(t, int64(0), testutil.Coin(t, f.db, a.ID))
	assert.Equal(t, int64(3), testutil.Coin(t, f.db, b.ID))
	var credits int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("type = ?", domain.TxGroupAward).Count(&credits).Error)
	assert.Zero(t, credits)
}
