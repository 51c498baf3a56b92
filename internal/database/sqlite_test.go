package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jengzang/crimestats-backend-go/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: MemoryPath}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := openMemory(t)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'crimes'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var versions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crimes.db")
	ctx := context.Background()

	db, err := Open(ctx, Config{Path: path}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, Config{Path: path}, logging.Discard())
	require.NoError(t, err)
	defer db.Close()

	var versions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestSchema_RejectsNonCanonicalWeekday(t *testing.T) {
	db := openMemory(t)

	_, err := db.Exec(`INSERT INTO crimes (occurred_on_date, year, month, day_of_week, hour)
		VALUES ('2023-01-02 10:00:00', 2023, 1, 'Mon', 10)`)
	assert.Error(t, err)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := Transaction(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO crimes (occurred_on_date, year, month, day_of_week, hour)
			VALUES ('2023-01-02 10:00:00', 2023, 1, 'Monday', 10)`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crimes`).Scan(&count))
	assert.Zero(t, count)
}
