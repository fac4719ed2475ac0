// Package query implements the pure aggregation and filter functions behind
// the watchlist charts. Nothing here performs I/O or keeps state; every
// function works on a snapshot the caller already loaded.
package query

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Field names a column of types.Entry for GroupCount.
type Field string

// Groupable fields.
const (
	FieldTitle    Field = "Title"
	FieldGenre    Field = "Genre"
	FieldEpisodes Field = "Episodes"
	FieldRating   Field = "Rating"
	FieldStatus   Field = "Status"
)

// DefaultVoteCeiling is the vote slider ceiling used when there are no
// characters to measure.
const DefaultVoteCeiling = 200

// Count is one group of GroupCount.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Bucket is one bar of RatingHistogram.
type Bucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// GroupCount counts entries per distinct value of field. Groups are ordered
// by descending count; ties keep first-seen order.
func GroupCount(entries []types.Entry, field Field) []Count {
	index := make(map[string]int)
	counts := []Count{}
	for _, e := range entries {
		v := e.Field(string(field))
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// FilterByStatusSet returns the entries whose Status is in allowed, in
// their original order. An empty allowed set selects nothing; callers
// prompt for a selection instead of showing everything.
func FilterByStatusSet(entries []types.Entry, allowed []string) []types.Entry {
	out := []types.Entry{}
	if len(allowed) == 0 {
		return out
	}
	set := make(map[string]bool, len(allowed))
	for _, s := range allowed {
		set[s] = true
	}
	for _, e := range entries {
		if set[e.Status] {
			out = append(out, e)
		}
	}
	return out
}

// RatingHistogram counts entries per distinct Rating, ascending by Rating.
func RatingHistogram(entries []types.Entry) []Bucket {
	counts := make(map[int]int)
	for _, e := range entries {
		counts[e.Rating]++
	}
	buckets := make([]Bucket, 0, len(counts))
	for r, n := range counts {
		buckets = append(buckets, Bucket{Rating: r, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Rating < buckets[j].Rating
	})
	return buckets
}

// ThresholdFilter returns the characters with at least minVotes votes, in
// their original order.
func ThresholdFilter(characters []types.Character, minVotes int) []types.Character {
	out := []types.Character{}
	for _, c := range characters {
		if c.Votes >= minVotes {
			out = append(out, c)
		}
	}
	return out
}

// VoteCeiling returns the upper bound of the vote threshold range: the
// highest vote count, or DefaultVoteCeiling when characters is empty.
func VoteCeiling(characters []types.Character) int {
	if len(characters) == 0 {
		return DefaultVoteCeiling
	}
	top := 0
	for _, c := range characters {
		if c.Votes > top {
			top = c.Votes
		}
	}
	return top
}

// DistinctStatuses returns each Status present, in first-seen order.
func DistinctStatuses(entries []types.Entry) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, e := range entries {
		if !seen[e.Status] {
			seen[e.Status] = true
			out = append(out, e.Status)
		}
	}
	return out
}

// AverageRating returns the mean Rating rounded to two places, or zero for
// no entries.
func AverageRating(entries []types.Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(decimal.NewFromInt(int64(e.Rating)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(entries)))).Round(2)
}
