package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/culler"
	"github.com/nikbrunner/pagemark/internal/model"
)

func cullCmd(c *cli) *cobra.Command {
	var remove bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Check every bookmarked link and report the dead ones",
		Long: `Check every bookmarked link. 404 and 410 responses are dead, except on
the configured cullExcludeDomains where they may just need a login.
With --delete, dead bookmarks are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := c.openBookmarks()
			if err != nil {
				return err
			}

			snapshot := manager.Snapshot()
			checker := culler.New(culler.Options{
				Concurrency:    c.cfg.CullConcurrency,
				Timeout:        c.cfg.CullTimeout(),
				ExcludeDomains: c.cfg.CullExcludeDomains,
				Logger:         &c.log,
			})

			var progress culler.ProgressFunc
			if !quiet {
				progress = func(completed, total int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\rChecked %d/%d", completed, total)
				}
			}

			start := time.Now()
			results := checker.Check(cmd.Context(), snapshot.Bookmarks, progress)
			if !quiet && len(results) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			c.log.Info().Int("checked", len(results)).Dur("took", time.Since(start)).Msg("cull finished")

			dead := report(cmd.OutOrStdout(), results)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if !remove || len(dead) == 0 {
				return nil
			}

			var removed int
			err = manager.Update(func(store *model.Store) error {
				removed = store.RemoveBookmarksByID(dead)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d dead bookmarks\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "delete dead bookmarks")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")
	return cmd
}

// report prints dead and unreachable links and returns the dead IDs.
func report(w io.Writer, results []culler.Result) []string {
	var dead, unreachable []culler.Result
	for _, r := range results {
		switch r.Status {
		case culler.Dead:
			dead = append(dead, r)
		case culler.Unreachable:
			unreachable = append(unreachable, r)
		}
	}

	if len(dead) > 0 {
		fmt.Fprintf(w, "Dead (%d):\n", len(dead))
		for _, r := range dead {
			fmt.Fprintf(w, "  %d  %s\n", r.StatusCode, r.Bookmark.URL)
		}
	}
	if len(unreachable) > 0 {
		fmt.Fprintf(w, "Unreachable (%d):\n", len(unreachable))
		for _, r := range unreachable {
			fmt.Fprintf(w, "  %s  %s\n", r.Error, r.Bookmark.URL)
		}
	}
	fmt.Fprintf(w, "%d checked, %d dead, %d unreachable\n", len(results), len(dead), len(unreachable))

	return culler.DeadBookmarkIDs(results)
}
