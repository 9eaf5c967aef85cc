package animals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shelter-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	s := NewStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestStore_UpsertKeepsCreatedAt(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	t0 := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	require.NoError(t, s.Upsert(ctx, &Animal{DesertionNo: "1", ProcessState: ptr("보호중"), SexCd: SexMale, NeuterYn: NeuterNo}))

	stored, ok, err := s.FindByKey(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.CreatedAt.Equal(t0))

	t1 := t0.Add(time.Hour)
	s.now = func() time.Time { return t1 }
	merged := Policy{}.Merge(stored, &Animal{DesertionNo: "1", ProcessState: ptr("종료(입양)")})
	require.NoError(t, s.Upsert(ctx, merged))

	got, ok, err := s.FindByKey(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "종료(입양)", *got.ProcessState)
	assert.Equal(t, SexMale, got.SexCd)
	assert.True(t, got.CreatedAt.Equal(t0), "created_at is set once")
	assert.True(t, got.UpdatedAt.Equal(t1))
}

func TestStore_FindByKeyMissing(t *testing.T) {
	s := newSQLiteStore(t)
	a, ok, err := s.FindByKey(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestStore_ScanAllCrossesBatches(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	const n = scanBatchSize + 37
	for i := range n {
		require.NoError(t, s.Upsert(ctx, &Animal{DesertionNo: fmt.Sprintf("%06d", i), SexCd: SexUnknown, NeuterYn: NeuterUnknown}))
	}

	all, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	keys := make(map[string]struct{}, n)
	for _, a := range all {
		keys[a.DesertionNo] = struct{}{}
	}
	assert.Len(t, keys, n, "every row is a distinct value")
}

func TestStore_DeleteAndList(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	for i, state := range []string{"보호중", "보호중", "종료(입양)"} {
		require.NoError(t, s.Upsert(ctx, &Animal{DesertionNo: fmt.Sprint(i + 1), ProcessState: ptr(state), SexCd: SexUnknown, NeuterYn: NeuterUnknown}))
	}

	items, total, err := s.List(ctx, ListFilter{State: "보호중", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].DesertionNo)

	require.NoError(t, s.Delete(ctx, &Animal{DesertionNo: "1"}))

	items, total, err = s.List(ctx, ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "2", items[0].DesertionNo)
	assert.Equal(t, "3", items[1].DesertionNo)
}

func TestStore_MySQLFindByKey(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `abandoned_animals` WHERE desertion_no = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"desertion_no", "process_state", "sex_cd", "neuter_yn"}).
			AddRow("448567202400123", "보호중", "F", "Y"))

	a, ok, err := s.FindByKey(context.Background(), "448567202400123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "보호중", *a.ProcessState)
	assert.Equal(t, SexFemale, a.SexCd)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MySQLFindByKeyError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `abandoned_animals`").WillReturnError(fmt.Errorf("connection reset"))

	_, ok, err := s.FindByKey(context.Background(), "1")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestStore_MySQLDelete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `abandoned_animals` WHERE desertion_no = \\?").
		WithArgs("42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), &Animal{DesertionNo: "42"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
