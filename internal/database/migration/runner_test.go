package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skillstack/internal/database/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_EmbeddedSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Runner{}.Run(ctx, db))
	require.NoError(t, Runner{}.Run(ctx, db))

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)

	_, err = db.Exec(ctx, `INSERT INTO skills (skill_name, resource_type, platform) VALUES ($1, $2, $3)`, "Go", "course", "Udemy")
	require.NoError(t, err)

	var progress string
	var hours float64
	var difficulty int
	require.NoError(t, db.QueryRow(ctx, `SELECT progress, hours_spent, difficulty FROM skills`).Scan(&progress, &hours, &difficulty))
	assert.Equal(t, "started", progress)
	assert.Equal(t, 0.0, hours)
	assert.Equal(t, 1, difficulty)
}

func TestRunner_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	file := filepath.Join(dir, "V1__init.sql")
	require.NoError(t, os.WriteFile(file, []byte("CREATE TABLE a (id INTEGER)"), 0o644))
	require.NoError(t, Runner{Dir: dir}.Run(ctx, db))

	require.NoError(t, os.WriteFile(file, []byte("CREATE TABLE a (id TEXT)"), 0o644))
	err = Runner{Dir: dir}.Run(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestLoadMigrations_RejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "V1__a.sql"), []byte("SELECT 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "V01__b.sql"), []byte("SELECT 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	_, err := loadMigrations(os.DirFS(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}
