package repository

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-editor/pkg/config"
	"github.com/noah-isme/timetable-editor/pkg/database"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/storage"
)

type stateRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func exerciseStateRepository(t *testing.T, repo stateRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "timetable-state")
	require.ErrorIs(t, err, appErrors.ErrStateNotFound)

	require.NoError(t, repo.Put(ctx, "timetable-state", []byte(`{"templates":[]}`)))
	require.NoError(t, repo.Put(ctx, "timetable-state", []byte(`{"templates":[],"currentTemplateId":"x"}`)))

	got, err := repo.Get(ctx, "timetable-state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"templates":[],"currentTemplateId":"x"}`, string(got))

	require.NoError(t, repo.Delete(ctx, "timetable-state"))
	_, err = repo.Get(ctx, "timetable-state")
	assert.ErrorIs(t, err, appErrors.ErrStateNotFound)
}

func TestFileStateRepository(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseStateRepository(t, NewFileStateRepository(store))
}

func TestFileStateRepositorySanitisesKeys(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileStateRepository(store)

	require.NoError(t, repo.Put(context.Background(), "../escape/key", []byte("{}")))
	assert.FileExists(t, store.Path(".._escape_key.json"))
}

func TestSQLiteStateRepository(t *testing.T) {
	db, err := database.NewSQLite(context.Background(), config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "state.db")})
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLStateRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	exerciseStateRepository(t, repo)
}

func TestRedisStateRepository(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	repo := NewRedisStateRepository(client, "timetable:")
	exerciseStateRepository(t, repo)

	require.NoError(t, repo.Put(context.Background(), "k", []byte("v")))
	assert.True(t, srv.Exists("timetable:k"))
	assert.Equal(t, 0, int(srv.TTL("timetable:k")))
}

func newStateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSQLStateRepositoryPostgresPlaceholders(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()
	repo := NewSQLStateRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)")).
		WithArgs("timetable-state", `{"templates":[]}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("timetable-state").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"templates":[]}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	require.NoError(t, repo.Put(context.Background(), "timetable-state", []byte(`{"templates":[]}`)))
	got, err := repo.Get(context.Background(), "timetable-state")
	require.NoError(t, err)
	assert.Equal(t, `{"templates":[]}`, string(got))

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrStateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
