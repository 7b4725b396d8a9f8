package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesV1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE scan_runs (
		id TEXT PRIMARY KEY,
		ability TEXT NOT NULL,
		count INTEGER NOT NULL,
		scanned INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO scan_runs VALUES ('6f1c1a52-1f0e-4a7b-9a53-0a3c2f3a9a11', 'levitate', 57, 1017, 0, 1200)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, CurrentSchemaVersion, GetSchemaVersion(s.db))
	assert.True(t, columnExists(s.db, "scan_runs", "concurrency"))
	assert.True(t, columnExists(s.db, "scan_runs", "top_json"))

	runs, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "levitate", runs[0].Ability)
	assert.Equal(t, 1, runs[0].Concurrency, "old rows get the column default")
	assert.Empty(t, runs[0].Top)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, RunMigrations(s.db))
	require.NoError(t, RunMigrations(s.db))
	assert.Equal(t, CurrentSchemaVersion, GetSchemaVersion(s.db))
	assert.False(t, tableExists(s.db, "knowledge_atoms"))
}
