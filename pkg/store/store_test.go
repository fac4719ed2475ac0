package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		wantErr error
	}{
		{types.BackendCSV, nil},
		{types.BackendSQLite, nil},
		{"", types.ErrBackendEmpty},
		{"postgres", types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := New(tt.backend)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestBackendsShareTheEntriesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{DataDir: dir}

	csv := NewCSV()
	cfg.Backend = types.BackendCSV
	require.NoError(t, csv.Attach(cfg))
	require.NoError(t, csv.Add(types.Entry{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"}))
	require.NoError(t, csv.Detach())

	sq := NewSQLite()
	cfg.Backend = types.BackendSQLite
	require.NoError(t, sq.Attach(cfg))
	defer sq.Detach()

	err := sq.Add(types.Entry{Title: "naruto", Genre: "Fantasy", Episodes: 1, Rating: 5, Status: "Dropped"})
	assert.ErrorIs(t, err, types.ErrDuplicateEntry)

	entries, present, err := sq.LoadAll()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, []types.Entry{{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"}}, entries)
	assert.FileExists(t, filepath.Join(dir, types.DefaultEntriesFile))
}
