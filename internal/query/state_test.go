package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

func TestViewStateNormalize(t *testing.T) {
	t.Run("unset selection defaults to every status present", func(t *testing.T) {
		s := ViewState{}.Normalize(sample, cast)
		assert.Equal(t, []string{"Watching", "Completed", "Dropped"}, s.Statuses)
		assert.Equal(t, 0, s.MinVotes)
	})

	t.Run("explicit empty selection is kept", func(t *testing.T) {
		s := ViewState{Statuses: []string{}}.Normalize(sample, cast)
		assert.NotNil(t, s.Statuses)
		assert.Empty(t, s.Statuses)
	})

	t.Run("min votes clamped to ceiling", func(t *testing.T) {
		s := ViewState{MinVotes: 500}.Normalize(sample, cast)
		assert.Equal(t, 180, s.MinVotes)

		s = ViewState{MinVotes: 500}.Normalize(sample, nil)
		assert.Equal(t, DefaultVoteCeiling, s.MinVotes)

		s = ViewState{MinVotes: -3}.Normalize(sample, cast)
		assert.Equal(t, 0, s.MinVotes)
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		orig := ViewState{MinVotes: 500}
		_ = orig.Normalize(sample, cast)
		assert.Nil(t, orig.Statuses)
		assert.Equal(t, 500, orig.MinVotes)
	})
}

func TestViewStateToggle(t *testing.T) {
	s := ViewState{Statuses: []string{types.StatusWatching, types.StatusCompleted}}

	off := s.Toggle(types.StatusWatching)
	assert.Equal(t, []string{types.StatusCompleted}, off.Statuses)
	assert.False(t, off.Selected(types.StatusWatching))
	assert.True(t, s.Selected(types.StatusWatching), "original selection unchanged")

	on := off.Toggle(types.StatusDropped)
	assert.Equal(t, []string{types.StatusCompleted, types.StatusDropped}, on.Statuses)

	none := ViewState{Statuses: []string{types.StatusDropped}}.Toggle(types.StatusDropped)
	assert.NotNil(t, none.Statuses)
	assert.Empty(t, none.Statuses)
}
