package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTripAndInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	type wallet struct{ Coin int64 }
	var got wallet
	found, err := GetCache(ctx, rdb, WalletCacheKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, WalletCacheKey(1), wallet{Coin: 13}, CacheTTL))
	require.NoError(t, SetCache(ctx, rdb, TxHistoryCachePrefix(1)+":page:1:size:20", "x", CacheTTL))
	require.NoError(t, SetCache(ctx, rdb, TxHistoryCachePrefix(11)+":page:1:size:20", "y", CacheTTL))
	require.NoError(t, SetCache(ctx, rdb, "admin:users:page=1", "z", CacheTTL))

	found, err = GetCache(ctx, rdb, WalletCacheKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(13), got.Coin)

	InvalidateWallets(ctx, rdb, 1)
	assert.False(t, mr.Exists(WalletCacheKey(1)))
	assert.False(t, mr.Exists(TxHistoryCachePrefix(1)+":page:1:size:20"))
	assert.True(t, mr.Exists(TxHistoryCachePrefix(11)+":page:1:size:20"))
	assert.False(t, mr.Exists("admin:users:page=1"))

	mr.FastForward(CacheTTL + time.Second)
	assert.False(t, mr.Exists(TxHistoryCachePrefix(11)+":page:1:size:20"))

	InvalidateWallets(ctx, nil, 1)
}

func TestJWT(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned, "secret")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rootine",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(signed, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestDayRange(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*3600)
	at := time.Date(2026, 10, 15, 0, 30, 0, 0, berlin)

	start, end := DayRange(at)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, berlin), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, "2026-10-15", DayKey(at))
	// the same instant is still the 14th in UTC
	assert.Equal(t, "2026-10-14", DayKey(at.UTC()))

	prev := Location()
	t.Cleanup(func() { SetLocation(prev) })
	SetLocation(berlin)
	assert.Equal(t, berlin, Now().Location())
	SetLocation(nil)
	assert.Equal(t, berlin, Location())
}
