package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertUpdateByHash(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	t0 := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }

	e, err := MapRecord(fair("펫페어", "u", "코엑스"))
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, e))

	stored, ok, err := s.FindByKey(ctx, e.Hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotZero(t, stored.ID)

	s.now = func() time.Time { return t0.Add(time.Hour) }
	merged := Policy{}.Merge(stored, &PetEvent{Hash: e.Hash, EventMoney: ptr("5,000원")})
	require.NoError(t, s.Upsert(ctx, merged))

	got, ok, err := s.FindByKey(ctx, e.Hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "5,000원", *got.EventMoney)
	assert.Equal(t, "PET&MORE", *got.Source)
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Hour)))

	all, err := s.ScanAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_InsertSameHashOverwrites(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	a, _ := MapRecord(fair("t", "u", "l"))
	require.NoError(t, s.Upsert(ctx, a))

	b, _ := MapRecord(fair("t", "u", "l"))
	b.EventTime = ptr("10:00 ~ 18:00")
	require.NoError(t, s.Upsert(ctx, b))

	all, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "10:00 ~ 18:00", *all[0].EventTime)
}

func TestStore_DeleteAndRecent(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	var hashes []string
	for i, title := range []string{"a", "b", "c"} {
		s.now = func() time.Time { return t0.Add(time.Duration(i) * time.Minute) }
		e, _ := MapRecord(fair(title, "u", "l"))
		require.NoError(t, s.Upsert(ctx, e))
		hashes = append(hashes, e.Hash)
	}

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", *recent[0].EventTitle)
	assert.Equal(t, "b", *recent[1].EventTitle)

	require.NoError(t, s.Delete(ctx, &PetEvent{Hash: hashes[2]}))
	_, ok, err := s.FindByKey(ctx, hashes[2])
	require.NoError(t, err)
	assert.False(t, ok)
}
