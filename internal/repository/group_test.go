package repository

import (
	"context"
	"testing"
	"time"

	"rootine/internal/domain"
	"rootine/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMembershipAndProofCounts(t *testing.T) {
	conn := testutil.NewDB(t)
	groups := NewGroupRepository(conn)
	proofs := NewGroupProofRepository(conn)
	ctx := context.Background()
	a := testutil.CreateUser(t, conn, "alice", 0)
	b := testutil.CreateUser(t, conn, "bob", 0)

	g := &domain.Group{Code: "ABC234", CreatedBy: a.ID, Name: "Run", HabitDescription: "5km"}
	require.NoError(t, groups.CreateWithOwner(ctx, g))
	taken, err := groups.CodeExists(ctx, "ABC234")
	require.NoError(t, err)
	assert.True(t, taken)

	dup := &domain.Group{Code: "ABC234", CreatedBy: b.ID, Name: "Other", HabitDescription: "x"}
	assert.True(t, IsDuplicateKey(groups.CreateWithOwner(ctx, dup)))

	require.NoError(t, groups.AddMember(ctx, g.ID, b.ID))
	require.NoError(t, groups.AddMember(ctx, g.ID, b.ID))
	ids, err := groups.ListMemberIDs(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)

	rows, err := groups.ListMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []MemberRow{{UserID: a.ID, Username: "alice"}, {UserID: b.ID, Username: "bob"}}, rows)

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	for _, p := range []domain.GroupProof{
		{GroupID: g.ID, UserID: a.ID, ImageURL: "u", CreatedAt: day.Add(-time.Second)},
		{GroupID: g.ID, UserID: a.ID, ImageURL: "u", CreatedAt: day},
		{GroupID: g.ID, UserID: a.ID, ImageURL: "u", CreatedAt: day.Add(3 * time.Hour)},
		{GroupID: g.ID, UserID: b.ID, ImageURL: "u", CreatedAt: day.Add(24 * time.Hour)},
	} {
		require.NoError(t, proofs.Create(ctx, &p))
	}

	n, err := proofs.CountInRange(ctx, g.ID, a.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := proofs.CountPerMemberInRange(ctx, g.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{a.ID: 2}, counts)

	recent, err := proofs.ListForUser(ctx, g.ID, a.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt))

	mine, err := groups.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ABC234", mine[0].Code)
}
