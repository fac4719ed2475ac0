package csvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/watchlist/internal/storetest"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

func TestBackend_Contract(t *testing.T) {
	storetest.Run(t, types.BackendCSV, func() types.Store { return NewBackend() })
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendCSV, DataDir: dir}))
	defer b.Detach()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, types.DefaultEntriesFile), b.Path())
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_CustomEntriesFile(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendCSV, DataDir: dir, EntriesFile: "shows.csv"}))
	defer b.Detach()

	require.NoError(t, b.Add(types.Entry{Title: "Mob Psycho 100", Genre: types.GenreComedy, Episodes: 37, Rating: 9, Status: types.StatusCompleted}))

	_, err := os.Stat(filepath.Join(dir, "shows.csv"))
	assert.NoError(t, err)
}

func TestBackend_MalformedFileBlocksAdd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, types.DefaultEntriesFile)
	original := "Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,lots,8,Watching\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendCSV, DataDir: dir}))
	defer b.Detach()

	_, _, err := b.LoadAll()
	assert.ErrorIs(t, err, types.ErrMalformedResource)

	err = b.Add(types.Entry{Title: "Bleach", Genre: types.GenreShonen, Episodes: 20, Rating: 9, Status: types.StatusCompleted})
	assert.ErrorIs(t, err, types.ErrMalformedResource)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "malformed file must not be touched")
}
