package sqlx_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	libsqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	storage "habitquest/adapters/sqlx"
	"habitquest/core"
)

func newMockStore(t *testing.T) (*storage.Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	xdb := storage.NewWithDB(libsqlx.NewDb(db, "postgres"), storage.DriverPostgres)
	cleanup := func() {
		_ = db.Close()
	}
	return xdb, mock, cleanup
}

func TestSQLMock_Save_Insert(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	ctx := context.Background()
	p := core.NewProfile(time.Now())
	p.TotalXP = 40

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM profiles`).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO profiles`).
		WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(ctx, "alice", p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Save_Update(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	ctx := context.Background()
	p := core.NewProfile(time.Now())
	p.TotalXP = 75

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM profiles`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alice"))
	mock.ExpectExec(`UPDATE profiles SET snapshot`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(ctx, "alice", p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Load_Absent(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT snapshot FROM profiles`).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Load_Snapshot(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	p := core.NewProfile(time.Now())
	p.TotalXP = 150
	p.Level = core.LevelFromXP(150)
	b, err := json.Marshal(p)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT snapshot FROM profiles`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(string(b)))

	got, ok, err := store.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 150, got.TotalXP)
	require.Equal(t, 2, got.Level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLMock_Load_CorruptRowIsAbsent(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT snapshot FROM profiles`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow("{broken"))

	_, ok, err := store.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
