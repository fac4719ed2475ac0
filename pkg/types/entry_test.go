package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryHasTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "plain title", title: "Naruto", want: true},
		{name: "empty title", title: "", want: false},
		{name: "whitespace only", title: "   \t", want: false},
		{name: "padded title", title: "  Bleach ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Entry{Title: tt.title}.HasTitle())
		})
	}
}

func TestEntrySameTitle(t *testing.T) {
	e := Entry{Title: "Naruto"}

	assert.True(t, e.SameTitle("Naruto"))
	assert.True(t, e.SameTitle("naruto"))
	assert.True(t, e.SameTitle("NARUTO"))
	assert.False(t, e.SameTitle("Naruto Shippuden"))
	assert.False(t, e.SameTitle(""))
}

func TestTitleKeyFoldsUnicode(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"ΟΔΥΣΣΕΥΣ", "οδυσσευς"},
		{"BOSS", "boſs"},
		{"Straße", "STRASSE"},
		{"Kaiji", "KAIJI"},
	}
	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			assert.Equal(t, TitleKey(tt.a), TitleKey(tt.b))
			assert.True(t, Entry{Title: tt.a}.SameTitle(tt.b))
			assert.True(t, Entry{Title: tt.b}.SameTitle(tt.a))
		})
	}
	assert.NotEqual(t, TitleKey("Bleach"), TitleKey("Bleach 2"))
}

func TestEntryRecord(t *testing.T) {
	e := Entry{Title: "Haikyu!!", Genre: GenreSports, Episodes: 85, Rating: 10, Status: StatusCompleted}

	assert.Equal(t, []string{"Haikyu!!", "Sports", "85", "10", "Completed"}, e.Record())
	assert.Len(t, e.Record(), len(Header))
}

func TestEntryField(t *testing.T) {
	e := Entry{Title: "Frieren", Genre: GenreFantasy, Episodes: 28, Rating: 9, Status: StatusWatching}

	assert.Equal(t, "Frieren", e.Field("Title"))
	assert.Equal(t, "Fantasy", e.Field("Genre"))
	assert.Equal(t, "28", e.Field("Episodes"))
	assert.Equal(t, "9", e.Field("Rating"))
	assert.Equal(t, "Watching", e.Field("Status"))
	assert.Equal(t, "", e.Field("Studio"))
}

func TestInputValidators(t *testing.T) {
	for _, g := range Genres {
		assert.True(t, ValidGenre(g), g)
	}
	assert.False(t, ValidGenre("Mecha"))
	assert.False(t, ValidGenre("shonen"), "genres are case-sensitive")

	for _, s := range Statuses {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("On Hold"))

	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(10))
	assert.False(t, ValidRating(11))

	assert.True(t, ValidEpisodes(0))
	assert.False(t, ValidEpisodes(-1))
}
