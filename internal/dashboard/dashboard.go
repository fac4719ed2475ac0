// Package dashboard recomputes the watchlist views on demand.
//
// A Dashboard caches the last loaded snapshot of the entries and reference
// data. Mutations made through the Dashboard, explicit Invalidate calls, and
// file events observed by Watch drop the cache; the next Views call reloads.
// Nothing is recomputed eagerly.
package dashboard

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/watchlist/internal/query"
	"github.com/mesh-intelligence/watchlist/internal/refdata"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Dashboard couples a Store and a reference Loader with a snapshot cache.
type Dashboard struct {
	store  types.Store
	refs   *refdata.Loader
	logger *zap.Logger

	mu         sync.Mutex
	snap       *Snapshot
	generation uint64
}

// Snapshot is one consistent read of both data sources. Load failures are
// recorded rather than returned so each view can degrade on its own.
type Snapshot struct {
	Entries        []types.Entry
	EntriesPresent bool
	EntriesErr     error

	Characters    []types.Character
	CharactersErr error

	Generation uint64
}

// Views holds everything the presentation layer renders for one state.
type Views struct {
	State query.ViewState

	Entries        []types.Entry
	EntriesPresent bool
	EntriesErr     error

	Genres        []query.Count
	StatusOptions []string
	Filtered      []types.Entry
	Ratings       []query.Bucket
	AverageRating decimal.Decimal

	Characters         []types.Character
	CharactersErr      error
	FilteredCharacters []types.Character
	VoteCeiling        int

	Generation uint64
}

// HasEntries reports whether the entry-based charts have data to show.
func (v Views) HasEntries() bool {
	return v.EntriesErr == nil && v.EntriesPresent && len(v.Entries) > 0
}

// HasCharacters reports whether the characters chart can be drawn.
func (v Views) HasCharacters() bool {
	return v.CharactersErr == nil
}

// New returns a Dashboard over store and refs. A nil logger discards logs.
func New(store types.Store, refs *refdata.Loader, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{store: store, refs: refs, logger: logger}
}

// Add stores entry and invalidates the cache on success.
func (d *Dashboard) Add(entry types.Entry) error {
	if err := d.store.Add(entry); err != nil {
		d.logger.Debug("add rejected", zap.String("title", entry.Title), zap.Error(err))
		return err
	}
	d.logger.Info("entry added", zap.String("title", entry.Title))
	d.Invalidate()
	return nil
}

// Remove deletes entries titled title and invalidates the cache when any
// were removed.
func (d *Dashboard) Remove(title string) (int, error) {
	n, err := d.store.Remove(title)
	if err != nil {
		d.logger.Warn("remove failed", zap.String("title", title), zap.Error(err))
		return 0, err
	}
	if n > 0 {
		d.logger.Info("entry removed", zap.String("title", title), zap.Int("count", n))
		d.Invalidate()
	}
	return n, nil
}

// Invalidate drops the cached snapshot.
func (d *Dashboard) Invalidate() {
	d.mu.Lock()
	d.snap = nil
	d.mu.Unlock()
}

// Snapshot returns the cached snapshot, loading it first if invalidated.
// The returned slices are copies.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snap == nil {
		d.snap = d.loadLocked()
	}
	s := *d.snap
	s.Entries = append([]types.Entry(nil), s.Entries...)
	s.Characters = append([]types.Character(nil), s.Characters...)
	return s
}

func (d *Dashboard) loadLocked() *Snapshot {
	d.generation++
	s := &Snapshot{Generation: d.generation}

	s.Entries, s.EntriesPresent, s.EntriesErr = d.store.LoadAll()
	if s.EntriesErr != nil {
		d.logger.Warn("entries unavailable", zap.Error(s.EntriesErr))
	}

	if d.refs != nil {
		s.Characters, s.CharactersErr = d.refs.LoadCharacters()
	} else {
		s.CharactersErr = types.ErrMissingResource
	}
	if s.CharactersErr != nil {
		d.logger.Debug("reference data unavailable", zap.Error(s.CharactersErr))
	}

	d.logger.Debug("snapshot loaded",
		zap.Uint64("generation", s.Generation),
		zap.Int("entries", len(s.Entries)),
		zap.Int("characters", len(s.Characters)))
	return s
}

// Views computes every chart for state from the current snapshot. The
// returned State is state normalized against the snapshot.
func (d *Dashboard) Views(state query.ViewState) Views {
	return Compute(d.Snapshot(), state)
}

// Compute derives the views for state from s.
func Compute(s Snapshot, state query.ViewState) Views {
	state = state.Normalize(s.Entries, s.Characters)
	filtered := query.FilterByStatusSet(s.Entries, state.Statuses)

	v := Views{
		State:          state,
		Entries:        s.Entries,
		EntriesPresent: s.EntriesPresent,
		EntriesErr:     s.EntriesErr,
		Genres:         query.GroupCount(s.Entries, query.FieldGenre),
		StatusOptions:  query.DistinctStatuses(s.Entries),
		Filtered:       filtered,
		Ratings:        query.RatingHistogram(filtered),
		AverageRating:  query.AverageRating(s.Entries),
		Characters:     s.Characters,
		CharactersErr:  s.CharactersErr,
		VoteCeiling:    query.VoteCeiling(s.Characters),
		Generation:     s.Generation,
	}
	if s.CharactersErr == nil {
		v.FilteredCharacters = query.ThresholdFilter(s.Characters, state.MinVotes)
	}
	return v
}
