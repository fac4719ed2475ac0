package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/watchlist/internal/dashboard"
	"github.com/mesh-intelligence/watchlist/internal/query"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

const noEntriesMessage = "No watchlist data available. Add shows to see this chart!"

// views loads the dashboard views for state. A malformed entries file is
// reported as an error; an absent or empty one is left to the caller.
func (a *app) views(state query.ViewState) (dashboard.Views, error) {
	d, closeFn, err := a.openDashboard()
	if err != nil {
		return dashboard.Views{}, err
	}
	defer closeFn()

	v := d.Views(state)
	if v.EntriesErr != nil {
		return v, storeError(v.EntriesErr)
	}
	return v, nil
}

func newGenresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Chart the number of anime per genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.views(query.ViewState{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, v.Genres)
			}
			if !v.HasEntries() {
				fmt.Fprintln(out, warnStyle.Render(noEntriesMessage))
				return nil
			}
			writeGenres(out, v)
			return nil
		},
	}
}

func writeGenres(out io.Writer, v dashboard.Views) {
	fmt.Fprintln(out, titleStyle.Render("Anime per genre"))
	fmt.Fprint(out, renderBars(countBars(v.Genres)))
	fmt.Fprintf(out, "Total genres tracked: %d | Average rating: %s\n",
		len(v.Genres), v.AverageRating.StringFixed(2))
}

func newRatingsCmd(a *app) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Chart the rating distribution for selected statuses",
		Long: `Ratings counts entries per rating among the entries whose status is
selected. Without --status every status present in the watchlist is selected.

Example:
  watchlist ratings --status Completed --status "Plan to Watch"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var state query.ViewState
			if cmd.Flags().Changed("status") {
				state.Statuses = []string{}
				for _, s := range statuses {
					if strings.TrimSpace(s) == "" {
						continue
					}
					if !types.ValidStatus(s) {
						return userError("unknown status %q (valid: %s)", s, strings.Join(types.Statuses, ", "))
					}
					state.Statuses = append(state.Statuses, s)
				}
			}

			v, err := a.views(state)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, map[string]any{
					"statuses": v.State.Statuses,
					"ratings":  v.Ratings,
				})
			}
			if !v.HasEntries() {
				fmt.Fprintln(out, warnStyle.Render(noEntriesMessage))
				return nil
			}
			writeRatings(out, v)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&statuses, "status", nil, "status to include (repeatable)")
	return cmd
}

func writeRatings(out io.Writer, v dashboard.Views) {
	fmt.Fprintln(out, titleStyle.Render("Rating distribution"))
	if len(v.State.Statuses) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("Please select at least one status to display the chart."))
		return
	}
	fmt.Fprintln(out, subtleStyle.Render("Statuses: "+strings.Join(v.State.Statuses, ", ")))
	fmt.Fprint(out, renderBars(bucketBars(v.Ratings)))
	fmt.Fprintf(out, "Displaying %d anime\n", len(v.Filtered))
}

func newCharactersCmd(a *app) *cobra.Command {
	var minVotes int

	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Chart favourite characters above a vote threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if minVotes < 0 {
				return userError("--min-votes must not be negative")
			}
			d, closeFn, err := a.openDashboard()
			if err != nil {
				return err
			}
			defer closeFn()

			v := d.Views(query.ViewState{MinVotes: minVotes})
			if errors.Is(v.CharactersErr, types.ErrMalformedResource) {
				return userError("%w", v.CharactersErr)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				chars := v.FilteredCharacters
				if chars == nil {
					chars = []types.Character{}
				}
				return writeJSON(out, map[string]any{
					"min_votes":  v.State.MinVotes,
					"ceiling":    v.VoteCeiling,
					"characters": chars,
				})
			}
			writeCharacters(out, v)
			return nil
		},
	}
	cmd.Flags().IntVar(&minVotes, "min-votes", 0, "minimum number of votes")
	return cmd
}

func writeCharacters(out io.Writer, v dashboard.Views) {
	fmt.Fprintln(out, titleStyle.Render("Favourite characters"))
	switch {
	case errors.Is(v.CharactersErr, types.ErrUnrecognizedStructure):
		fmt.Fprintln(out, warnStyle.Render("Reference data structure not recognized."))
		return
	case v.CharactersErr != nil:
		fmt.Fprintln(out, warnStyle.Render("No reference data available."))
		return
	}
	if len(v.FilteredCharacters) == 0 {
		fmt.Fprintf(out, "No characters found with votes ≥ %d\n", v.State.MinVotes)
		return
	}
	fmt.Fprint(out, renderBars(characterBars(v.FilteredCharacters)))
	fmt.Fprintf(out, "Showing %d characters with at least %d votes (max %d)\n",
		len(v.FilteredCharacters), v.State.MinVotes, v.VoteCeiling)
}
