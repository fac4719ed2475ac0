package types

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Genres accepted by the input layer.
const (
	GenreShonen      = "Shonen"
	GenreShoujo      = "Shoujo"
	GenreSliceOfLife = "Slice of Life"
	GenreFantasy     = "Fantasy"
	GenreSports      = "Sports"
	GenreThriller    = "Thriller"
	GenreComedy      = "Comedy"
)

// Watch statuses accepted by the input layer.
const (
	StatusWatching    = "Watching"
	StatusCompleted   = "Completed"
	StatusPlanToWatch = "Plan to Watch"
	StatusDropped     = "Dropped"
)

// Rating bounds accepted by the input layer.
const (
	MinRating = 1
	MaxRating = 10
)

// Genres lists every genre in display order.
var Genres = []string{
	GenreShonen,
	GenreShoujo,
	GenreSliceOfLife,
	GenreFantasy,
	GenreSports,
	GenreThriller,
	GenreComedy,
}

// Statuses lists every watch status in display order.
var Statuses = []string{
	StatusWatching,
	StatusCompleted,
	StatusPlanToWatch,
	StatusDropped,
}

// Header is the column header row of the entries file.
var Header = []string{"Title", "Genre", "Episodes", "Rating", "Status"}

// Entry is one watchlist row.
type Entry struct {
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Episodes int    `json:"episodes"`
	Rating   int    `json:"rating"`
	Status   string `json:"status"`
}

// HasTitle reports whether the entry carries a non-blank title.
func (e Entry) HasTitle() bool {
	return strings.TrimSpace(e.Title) != ""
}

// SameTitle reports whether title matches the entry title ignoring case.
// Two titles match when their TitleKey values are equal.
func (e Entry) SameTitle(title string) bool {
	return TitleKey(e.Title) == TitleKey(title)
}

// TitleKey returns the Unicode case-folded form of title. Every backend
// compares titles through this key.
func TitleKey(title string) string {
	return cases.Fold().String(title)
}

// Record returns the entry as a row in Header order.
func (e Entry) Record() []string {
	return []string{
		e.Title,
		e.Genre,
		strconv.Itoa(e.Episodes),
		strconv.Itoa(e.Rating),
		e.Status,
	}
}

// Field returns the string value of the named column. Unknown names yield "".
func (e Entry) Field(name string) string {
	switch name {
	case "Title":
		return e.Title
	case "Genre":
		return e.Genre
	case "Episodes":
		return strconv.Itoa(e.Episodes)
	case "Rating":
		return strconv.Itoa(e.Rating)
	case "Status":
		return e.Status
	default:
		return ""
	}
}

// ValidGenre reports whether g is one of Genres.
func ValidGenre(g string) bool {
	return contains(Genres, g)
}

// ValidStatus reports whether s is one of Statuses.
func ValidStatus(s string) bool {
	return contains(Statuses, s)
}

// ValidRating reports whether r lies within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// ValidEpisodes reports whether n is a usable episode count.
func ValidEpisodes(n int) bool {
	return n >= 0
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
