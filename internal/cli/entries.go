package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// storeError maps a store failure to a CLI error with an exit code.
func storeError(err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidTitle):
		return userError("please enter an anime title")
	case errors.Is(err, types.ErrMalformedResource):
		return userError("%w", err)
	default:
		return sysError("%w", err)
	}
}

func newAddCmd(a *app) *cobra.Command {
	var e types.Entry

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an anime to the watchlist",
		Long: `Add appends one anime to the entries file. Titles are unique ignoring
case; adding a title that is already present changes nothing.

Genres:   ` + strings.Join(types.Genres, ", ") + `
Statuses: ` + strings.Join(types.Statuses, ", ") + `

Example:
  watchlist add "Fullmetal Alchemist" --genre Fantasy --episodes 64 --rating 10 --status Completed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e.Title = args[0]
			return a.runAdd(cmd, e)
		},
	}
	cmd.Flags().StringVar(&e.Genre, "genre", types.GenreShonen, "genre")
	cmd.Flags().IntVar(&e.Episodes, "episodes", 0, "number of episodes")
	cmd.Flags().IntVar(&e.Rating, "rating", 5, fmt.Sprintf("rating from %d to %d", types.MinRating, types.MaxRating))
	cmd.Flags().StringVar(&e.Status, "status", types.StatusWatching, "watch status")
	return cmd
}

func (a *app) runAdd(cmd *cobra.Command, e types.Entry) error {
	if !types.ValidGenre(e.Genre) {
		return userError("unknown genre %q (valid: %s)", e.Genre, strings.Join(types.Genres, ", "))
	}
	if !types.ValidStatus(e.Status) {
		return userError("unknown status %q (valid: %s)", e.Status, strings.Join(types.Statuses, ", "))
	}
	if !types.ValidRating(e.Rating) {
		return userError("rating %d out of range %d-%d", e.Rating, types.MinRating, types.MaxRating)
	}
	if !types.ValidEpisodes(e.Episodes) {
		return userError("episodes must not be negative")
	}

	d, closeFn, err := a.openDashboard()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := d.Add(e); err != nil {
		if errors.Is(err, types.ErrDuplicateEntry) {
			return userError("'%s' is already in your watchlist", e.Title)
		}
		return storeError(err)
	}

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), e)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render(e.Title+" has been added to your watchlist"))
	fmt.Fprintf(out, "Genre: %s | Episodes: %d | Rating: %d/10 | Status: %s\n",
		e.Genre, e.Episodes, e.Rating, e.Status)
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closeFn, err := a.openDashboard()
			if err != nil {
				return err
			}
			defer closeFn()

			snap := d.Snapshot()
			if snap.EntriesErr != nil {
				return storeError(snap.EntriesErr)
			}
			if a.flags.jsonMode {
				entries := snap.Entries
				if entries == nil {
					entries = []types.Entry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			if len(snap.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("Your watchlist is empty. Add shows to get started!"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(snap.Entries))
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render(fmt.Sprintf("%d entries", len(snap.Entries))))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Remove an anime from the watchlist",
		Long:  "Remove deletes every entry whose title matches exactly, including case.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			d, closeFn, err := a.openDashboard()
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := d.Remove(title)
			if err != nil {
				return storeError(err)
			}
			if n == 0 {
				return userError("'%s' is not in your watchlist", title)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"title": title, "removed": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Removed "+title))
			return nil
		},
	}
}
