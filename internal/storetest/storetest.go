// Package storetest provides the behavioral test suite every types.Store
// backend must pass.
package storetest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Factory returns a fresh, unattached Store.
type Factory func() types.Store

// Run exercises the Store contract against the backend produced by newStore,
// attached with the given backend name.
func Run(t *testing.T, backend string, newStore Factory) {
	t.Helper()

	attach := func(t *testing.T) (types.Store, string) {
		t.Helper()
		dir := t.TempDir()
		s := newStore()
		require.NoError(t, s.Attach(types.Config{Backend: backend, DataDir: dir}))
		t.Cleanup(func() { s.Detach() })
		return s, filepath.Join(dir, types.DefaultEntriesFile)
	}

	naruto := types.Entry{Title: "Naruto", Genre: types.GenreShonen, Episodes: 50, Rating: 8, Status: types.StatusWatching}
	bleach := types.Entry{Title: "Bleach", Genre: types.GenreShonen, Episodes: 20, Rating: 9, Status: types.StatusCompleted}
	frieren := types.Entry{Title: "Frieren", Genre: types.GenreFantasy, Episodes: 28, Rating: 10, Status: types.StatusWatching}

	t.Run("load on fresh store signals no data", func(t *testing.T) {
		s, path := attach(t)

		entries, ok, err := s.LoadAll()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, entries)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "attach must not create the entries file")
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		s, _ := attach(t)

		want := []types.Entry{naruto, bleach, frieren}
		for _, e := range want {
			require.NoError(t, s.Add(e))
		}

		got, ok, err := s.LoadAll()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("first add writes header once", func(t *testing.T) {
		s, path := attach(t)

		require.NoError(t, s.Add(bleach))
		require.NoError(t, s.Add(naruto))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "Title,Genre,Episodes,Rating,Status"))
		assert.True(t, strings.HasPrefix(string(data), "Title,Genre,Episodes,Rating,Status\n"))
		assert.True(t, strings.HasSuffix(string(data), "\n"))
	})

	t.Run("blank title is rejected without mutation", func(t *testing.T) {
		s, path := attach(t)

		for _, title := range []string{"", "   "} {
			err := s.Add(types.Entry{Title: title, Genre: types.GenreComedy, Rating: 5, Status: types.StatusDropped})
			assert.ErrorIs(t, err, types.ErrInvalidTitle)
		}
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		require.NoError(t, s.Add(naruto))
		err = s.Add(types.Entry{})
		assert.ErrorIs(t, err, types.ErrInvalidTitle)

		entries, _, err := s.LoadAll()
		require.NoError(t, err)
		assert.Equal(t, []types.Entry{naruto}, entries)
	})

	t.Run("duplicate title in any case is rejected", func(t *testing.T) {
		s, _ := attach(t)
		require.NoError(t, s.Add(naruto))

		for _, title := range []string{"Naruto", "naruto", "NARUTO"} {
			err := s.Add(types.Entry{Title: title, Genre: types.GenreFantasy, Episodes: 1, Rating: 5, Status: types.StatusDropped})
			assert.ErrorIs(t, err, types.ErrDuplicateEntry, title)
		}

		entries, _, err := s.LoadAll()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, naruto, entries[0], "original entry must be unchanged")
	})

	t.Run("duplicate check folds unicode case", func(t *testing.T) {
		pairs := []struct{ stored, again string }{
			{"ΟΔΥΣΣΕΥΣ", "οδυσσευς"},
			{"BOSS", "boſs"},
			{"Straße", "STRASSE"},
		}
		for _, p := range pairs {
			t.Run(p.stored, func(t *testing.T) {
				s, _ := attach(t)
				e := naruto
				e.Title = p.stored
				require.NoError(t, s.Add(e))

				e.Title = p.again
				assert.ErrorIs(t, s.Add(e), types.ErrDuplicateEntry)

				entries, _, err := s.LoadAll()
				require.NoError(t, err)
				require.Len(t, entries, 1)
				assert.Equal(t, p.stored, entries[0].Title)
			})
		}
	})

	t.Run("add then remove restores count", func(t *testing.T) {
		s, _ := attach(t)
		require.NoError(t, s.Add(naruto))
		require.NoError(t, s.Add(frieren))

		before, _, err := s.LoadAll()
		require.NoError(t, err)

		require.NoError(t, s.Add(bleach))
		n, err := s.Remove(bleach.Title)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		after, _, err := s.LoadAll()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("remove matches title exactly", func(t *testing.T) {
		s, _ := attach(t)
		require.NoError(t, s.Add(naruto))

		n, err := s.Remove("naruto")
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		entries, _, err := s.LoadAll()
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("remove on absent store is a no-op", func(t *testing.T) {
		s, path := attach(t)

		n, err := s.Remove("Naruto")
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("scenario remove last entry then add", func(t *testing.T) {
		s, path := attach(t)
		require.NoError(t, s.Add(naruto))

		err := s.Add(types.Entry{Title: "naruto", Genre: types.GenreFantasy, Episodes: 1, Rating: 5, Status: types.StatusDropped})
		assert.ErrorIs(t, err, types.ErrDuplicateEntry)

		n, err := s.Remove("Naruto")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		entries, ok, err := s.LoadAll()
		require.NoError(t, err)
		assert.True(t, ok, "header-only file still counts as present")
		assert.Empty(t, entries)

		require.NoError(t, s.Add(bleach))
		entries, _, err = s.LoadAll()
		require.NoError(t, err)
		assert.Equal(t, []types.Entry{bleach}, entries)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Title,Genre,Episodes,Rating,Status\nBleach,Shonen,20,9,Completed\n", string(data))
	})

	t.Run("titles with commas and quotes survive", func(t *testing.T) {
		s, _ := attach(t)
		odd := types.Entry{Title: `Oshi no Ko, "Season 2"`, Genre: types.GenreThriller, Episodes: 13, Rating: 9, Status: types.StatusPlanToWatch}
		require.NoError(t, s.Add(odd))

		entries, _, err := s.LoadAll()
		require.NoError(t, err)
		assert.Equal(t, []types.Entry{odd}, entries)

		n, err := s.Remove(odd.Title)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("detached store rejects operations", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.Attach(types.Config{Backend: backend, DataDir: t.TempDir()}))
		require.NoError(t, s.Detach())
		require.NoError(t, s.Detach(), "detach is idempotent")

		assert.ErrorIs(t, s.Add(naruto), types.ErrStoreDetached)
		_, _, err := s.LoadAll()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = s.Remove("Naruto")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})

	t.Run("concurrent adds and removes keep the file consistent", func(t *testing.T) {
		s, _ := attach(t)
		const workers = 8

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				e := naruto
				e.Title = fmt.Sprintf("Show %d", i)
				assert.NoError(t, s.Add(e))
				dup := e
				dup.Title = strings.ToUpper(e.Title)
				assert.ErrorIs(t, s.Add(dup), types.ErrDuplicateEntry)
				if i%2 == 1 {
					n, err := s.Remove(e.Title)
					assert.NoError(t, err)
					assert.Equal(t, 1, n)
				}
			}()
		}
		wg.Wait()

		entries, ok, err := s.LoadAll()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, entries, workers/2)
		for _, e := range entries {
			assert.NotEmpty(t, e.Title)
		}
	})

	t.Run("double attach fails", func(t *testing.T) {
		s, _ := attach(t)
		err := s.Attach(types.Config{Backend: backend, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})
}
