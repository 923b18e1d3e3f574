package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkka404/tginfo/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResolution() *model.Resolution {
	handle := "telegram"
	return &model.Resolution{
		Kind: model.KindAccount,
		Account: &model.Account{
			ID:        777000,
			FirstName: "Telegram",
			Username:  &handle,
		},
		DCLocation:      "AMS, Amsterdam, Netherlands, NL",
		ProfilePhotoURL: "https://t.me/i/userpic/320/telegram.jpg",
	}
}

func TestCachePutGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	res := sampleResolution()
	require.NoError(t, db.Put(ctx, "telegram", res, time.Hour))

	got, err := db.Get(ctx, "telegram")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.KindAccount, got.Kind)
	require.NotNil(t, got.Account)
	assert.Equal(t, int64(777000), got.Account.ID)
	require.NotNil(t, got.Account.Username)
	assert.Equal(t, "telegram", *got.Account.Username)
	assert.Nil(t, got.Group)
}

func TestCacheMiss(t *testing.T) {
	db := newTestDB(t)
	got, err := db.Get(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheExpiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, "stale", sampleResolution(), -time.Minute))

	got, err := db.Get(ctx, "stale")
	assert.NoError(t, err)
	assert.Nil(t, got, "expired entries must read as misses")

	purged, err := db.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestCacheReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Put(ctx, "k", sampleResolution(), time.Hour))

	count := 12
	updated := &model.Resolution{
		Kind:       model.KindGroup,
		Group:      &model.Group{ID: -100123, Kind: model.GroupKindChannel, Title: "c", MembersCount: &count},
		DCLocation: "Unknown",
	}
	require.NoError(t, db.Put(ctx, "k", updated, time.Hour))

	got, err := db.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.KindGroup, got.Kind)
	require.NotNil(t, got.Group.MembersCount)
	assert.Equal(t, 12, *got.Group.MembersCount)
}
