package csvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadEntries(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      []types.Entry
		wantOK    bool
		malformed bool
	}{
		{
			name:    "empty file is no data",
			content: "",
			wantOK:  false,
		},
		{
			name:    "header only is present but empty",
			content: "Title,Genre,Episodes,Rating,Status\n",
			want:    []types.Entry{},
			wantOK:  true,
		},
		{
			name:    "rows in file order",
			content: "Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,8,Watching\nK-On!,Slice of Life,12,7,Completed\n",
			want: []types.Entry{
				{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"},
				{Title: "K-On!", Genre: "Slice of Life", Episodes: 12, Rating: 7, Status: "Completed"},
			},
			wantOK: true,
		},
		{
			name:    "byte order mark and missing trailing newline",
			content: "\ufeffTitle,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,8,Watching",
			want: []types.Entry{
				{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"},
			},
			wantOK: true,
		},
		{
			name:    "blank lines are skipped",
			content: "Title,Genre,Episodes,Rating,Status\n\nNaruto,Shonen,50,8,Watching\n\n",
			want: []types.Entry{
				{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"},
			},
			wantOK: true,
		},
		{
			name:      "wrong header",
			content:   "Name,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,8,Watching\n",
			malformed: true,
		},
		{
			name:      "short row",
			content:   "Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,50\n",
			malformed: true,
		},
		{
			name:      "non-numeric rating",
			content:   "Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,great,Watching\n",
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)

			got, ok, err := ReadEntries(path)
			if tt.malformed {
				assert.ErrorIs(t, err, types.ErrMalformedResource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	got, ok, err := ReadEntries(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAppendEntryRepairsMissingNewline(t *testing.T) {
	path := writeFile(t, "Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,8,Watching")

	require.NoError(t, AppendEntry(path, types.Entry{Title: "Bleach", Genre: "Shonen", Episodes: 20, Rating: 9, Status: "Completed"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Title,Genre,Episodes,Rating,Status\nNaruto,Shonen,50,8,Watching\nBleach,Shonen,20,9,Completed\n",
		string(data))
}

func TestAppendEntryOnZeroLengthFileWritesHeader(t *testing.T) {
	path := writeFile(t, "")

	require.NoError(t, AppendEntry(path, types.Entry{Title: "Bleach", Genre: "Shonen", Episodes: 20, Rating: 9, Status: "Completed"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Title,Genre,Episodes,Rating,Status\nBleach,Shonen,20,9,Completed\n", string(data))
}

func TestWriteEntriesLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	require.NoError(t, WriteEntries(path, []types.Entry{
		{Title: "Naruto", Genre: "Shonen", Episodes: 50, Rating: 8, Status: "Watching"},
	}))
	require.NoError(t, WriteEntries(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Title,Genre,Episodes,Rating,Status\n", string(data))

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestWithout(t *testing.T) {
	entries := []types.Entry{{Title: "A"}, {Title: "B"}, {Title: "A"}, {Title: "a"}}

	kept, removed := Without(entries, "A")
	assert.Equal(t, 2, removed)
	assert.Equal(t, []types.Entry{{Title: "B"}, {Title: "a"}}, kept)
}
