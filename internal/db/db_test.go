package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"news_podcast/internal/cache"
	"news_podcast/internal/db"
	"news_podcast/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (pgxmock.PgxPoolIface, *db.Database) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, &db.Database{Pool: mock}
}

func TestMigrate(t *testing.T) {
	mock, database := setupMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS generations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, database.Migrate(context.Background()))
}

func TestGetText(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectQuery("SELECT body, created_at").
			WithArgs("summary", "business").
			WillReturnRows(pgxmock.NewRows([]string{"body", "created_at"}).AddRow("Host A: hi", created))

		entry, err := database.GetText(context.Background(), models.KindSummary, "business")
		require.NoError(t, err)
		require.Equal(t, "Host A: hi", entry.Text)
		require.True(t, created.Equal(entry.CreatedAt))
	})

	t.Run("missing", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectQuery("SELECT body, created_at").
			WithArgs("exploration", "mars").
			WillReturnError(pgx.ErrNoRows)

		_, err := database.GetText(context.Background(), models.KindExploration, "mars")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectQuery("SELECT body, created_at").
			WithArgs("summary", "sports").
			WillReturnError(errors.New("conn reset"))

		_, err := database.GetText(context.Background(), models.KindSummary, "sports")
		require.Error(t, err)
		require.NotErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestPutText(t *testing.T) {
	mock, database := setupMock(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO generations").
		WithArgs("summary", "science", "script", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := database.PutText(context.Background(), models.KindSummary, "science", cache.Entry{Text: "script", CreatedAt: created})
	require.NoError(t, err)
}

func TestAudio(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectExec("INSERT INTO generation_audio").
			WithArgs("summary", "health", []byte("mp3")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, database.PutAudio(context.Background(), models.KindSummary, "health", []byte("mp3")))
	})

	t.Run("clear", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectExec("DELETE FROM generation_audio").
			WithArgs("summary", "health").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, database.PutAudio(context.Background(), models.KindSummary, "health", nil))
	})

	t.Run("read", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectQuery("SELECT audio FROM generation_audio").
			WithArgs("summary", "health").
			WillReturnRows(pgxmock.NewRows([]string{"audio"}).AddRow([]byte("mp3")))

		audio, err := database.GetAudio(context.Background(), models.KindSummary, "health")
		require.NoError(t, err)
		require.Equal(t, []byte("mp3"), audio)
	})

	t.Run("exists", func(t *testing.T) {
		mock, database := setupMock(t)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("exploration", "mars").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := database.HasAudio(context.Background(), models.KindExploration, "mars")
		require.NoError(t, err)
		require.True(t, ok)
	})
}
