package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	store := NewPostgresStore(db, "slack_invite")
	ctx := context.Background()

	t.Run("EnsureSchema", func(t *testing.T) {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS invite_records").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.EnsureSchema(ctx))
	})

	t.Run("Read", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"url":"https://join.slack.com/t/x","createdAt":"2026-10-01T12:00:00Z","isActive":true}`))
		mock.ExpectQuery("SELECT value FROM invite_records WHERE key = \\$1").
			WithArgs("slack_invite").
			WillReturnRows(rows)

		rec, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://join.slack.com/t/x", rec.URL)
		assert.True(t, rec.IsActive)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM invite_records WHERE key = \\$1").
			WithArgs("slack_invite").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := store.Read(ctx)
		assert.True(t, IsNotFound(err))
	})

	t.Run("ReadFailure", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM invite_records WHERE key = \\$1").
			WithArgs("slack_invite").
			WillReturnError(errors.New("connection reset"))

		_, err := store.Read(ctx)
		assert.True(t, IsTransport(err))
	})

	t.Run("Write", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO invite_records (.+) ON CONFLICT \\(key\\) DO UPDATE").
			WithArgs("slack_invite", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Write(ctx, sampleRecord()))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
