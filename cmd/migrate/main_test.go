package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"010_late.sql", "002_next.sql", "001_init.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "001_init.sql", filepath.Base(files[0]))
	assert.Equal(t, "010_late.sql", filepath.Base(files[2]))

	_, err = migrationFiles(t.TempDir())
	assert.Error(t, err)
}

func TestMigrationFiles_Repository(t *testing.T) {
	files, err := migrationFiles("../../migrations")
	require.NoError(t, err)
	assert.Equal(t, "001_init.sql", filepath.Base(files[0]))
}
