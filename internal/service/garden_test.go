package service

import (
	"context"
	"testing"

	"rootine/internal/domain"
	"rootine/internal/repository"
	"rootine/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGardenPurchase(t *testing.T) {
	f := newFixture(t)
	svc := NewGardenService(repository.NewGardenRepository(f.db))
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 30)

	_, err := svc.Purchase(ctx, a.ID, "cactus", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = svc.Purchase(ctx, a.ID, "flower1", 8, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = svc.Purchase(ctx, a.ID, "tallImage", 0, 0)
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	sign, err := svc.Purchase(ctx, a.ID, "imageSign", 1, 2)
	require.NoError(t, err)
	require.NotNil(t, sign.Image)
	assert.Equal(t, PlaceholderImage, *sign.Image)
	assert.Equal(t, [2]int{1, 2}, sign.Position())
	assert.Equal(t, int64(5), testutil.Coin(t, f.db, a.ID))

	_, err = svc.Purchase(ctx, a.ID, "flower1", 3, 3)
	assert.ErrorIs(t, err, ErrInsufficientCoins)
	assert.Equal(t, int64(5), testutil.Coin(t, f.db, a.ID))

	var tx domain.Transaction
	require.NoError(t, f.db.Where("type = ?", domain.TxPurchase).First(&tx).Error)
	assert.Equal(t, int64(-25), tx.Amount)
}

func TestGardenPurchaseOnOccupiedCell(t *testing.T) {
	f := newFixture(t)
	svc := NewGardenService(repository.NewGardenRepository(f.db))
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 100)

	_, err := svc.Purchase(ctx, a.ID, "flower1", 4, 4)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, a.ID, "flower2", 4, 4)
	require.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, int64(90), testutil.Coin(t, f.db, a.ID))
}

func TestGardenEdit(t *testing.T) {
	f := newFixture(t)
	svc := NewGardenService(repository.NewGardenRepository(f.db))
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice", 100)
	b := testutil.CreateUser(t, f.db, "bob", 100)

	rose, err := svc.Purchase(ctx, a.ID, "flower1", 0, 0)
	require.NoError(t, err)
	sign, err := svc.Purchase(ctx, a.ID, "imageSign", 1, 0)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, b.ID, "flower1", 5, 5)
	require.NoError(t, err)

	_, err = svc.Move(ctx, a.ID, rose.ID, 1, 0)
	assert.ErrorIs(t, err, ErrCellOccupied)
	_, err = svc.Move(ctx, a.ID, rose.ID, -1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = svc.Move(ctx, b.ID, rose.ID, 2, 2)
	assert.ErrorIs(t, err, ErrNotOwner)
	moved, err := svc.Move(ctx, a.ID, rose.ID, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, [2]int{5, 5}, moved.Position())

	_, err = svc.SetImage(ctx, a.ID, rose.ID, "https://img.test/a.png")
	assert.ErrorIs(t, err, ErrNotSign)
	updated, err := svc.SetImage(ctx, a.ID, sign.ID, "https://img.test/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/a.png", *updated.Image)

	assert.ErrorIs(t, svc.Delete(ctx, b.ID, sign.ID), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, a.ID, sign.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID, sign.ID), ErrItemNotFound)

	items, err := svc.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rose.ID, items[0].ID)
}
