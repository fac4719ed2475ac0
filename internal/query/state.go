package query

import "github.com/mesh-intelligence/watchlist/pkg/types"

// ViewState is the last selection made in the presentation layer. The
// presentation layer owns it and passes it into each recomputation; this
// package never stores one.
type ViewState struct {
	// Statuses selected for the rating chart. Nil means "not chosen yet"
	// and is seeded with every status present; an empty non-nil slice is an
	// explicit empty selection.
	Statuses []string `json:"statuses"`

	// MinVotes is the character vote threshold.
	MinVotes int `json:"min_votes"`
}

// Normalize seeds an unset status selection with every status present and
// clamps MinVotes into [0, VoteCeiling(characters)].
func (s ViewState) Normalize(entries []types.Entry, characters []types.Character) ViewState {
	if s.Statuses == nil {
		s.Statuses = DistinctStatuses(entries)
	}
	if s.MinVotes < 0 {
		s.MinVotes = 0
	}
	if ceiling := VoteCeiling(characters); s.MinVotes > ceiling {
		s.MinVotes = ceiling
	}
	return s
}

// Selected reports whether status is part of the selection.
func (s ViewState) Selected(status string) bool {
	for _, st := range s.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

// Toggle returns a copy with status added to or removed from the selection.
func (s ViewState) Toggle(status string) ViewState {
	out := make([]string, 0, len(s.Statuses)+1)
	found := false
	for _, st := range s.Statuses {
		if st == status {
			found = true
			continue
		}
		out = append(out, st)
	}
	if !found {
		out = append(out, status)
	}
	s.Statuses = out
	return s
}
