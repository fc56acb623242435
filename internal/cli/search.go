package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/picker"
	"github.com/nikbrunner/pagemark/internal/search"
)

// searchFilter narrows the bookmarks a search looks at.
type searchFilter struct {
	tag    string
	domain string
}

// apply returns a store holding only the bookmarks passing the filter.
func (f searchFilter) apply(store *model.Store) *model.Store {
	if f.tag == "" && f.domain == "" {
		return store
	}

	keep := func(b *model.Bookmark) bool { return true }
	if f.tag != "" {
		tagged := idSet(search.FilterByTag(store, f.tag))
		keep = func(b *model.Bookmark) bool { return tagged[b.ID] }
	}
	if f.domain != "" {
		inDomain := idSet(search.FilterByDomain(store, f.domain))
		prev := keep
		keep = func(b *model.Bookmark) bool { return prev(b) && inDomain[b.ID] }
	}

	filtered := &model.Store{Folders: store.Folders, Bookmarks: []model.Bookmark{}}
	for i := range store.Bookmarks {
		if keep(&store.Bookmarks[i]) {
			filtered.Bookmarks = append(filtered.Bookmarks, store.Bookmarks[i])
		}
	}
	return filtered
}

func idSet(bookmarks []*model.Bookmark) map[string]bool {
	ids := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		ids[b.ID] = true
	}
	return ids
}

func searchCmd(c *cli) *cobra.Command {
	var filter searchFilter
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search the bookmarks and open the choice",
		Long: `Fuzzy search the bookmarks by title (or URL for untitled ones).
A single match is opened directly, several matches open a picker.
Without a query, the bookmarks passing --tag and --domain are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if query == "" {
				return c.list(cmd, filter)
			}
			return c.search(cmd, query, filter, copyURL)
		},
	}

	cmd.Flags().StringVar(&filter.tag, "tag", "", "only bookmarks with this tag")
	cmd.Flags().StringVar(&filter.domain, "domain", "", "only bookmarks on this domain or its sub-domains")
	cmd.Flags().BoolVarP(&copyURL, "copy", "y", false, "copy the chosen URL instead of opening it")
	return cmd
}

func (c *cli) list(cmd *cobra.Command, filter searchFilter) error {
	manager, err := c.openBookmarks()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, b := range filter.apply(manager.Snapshot()).Bookmarks {
		fmt.Fprintf(out, "%s\t%s\n", b.Title, b.URL)
	}
	return nil
}

func (c *cli) search(cmd *cobra.Command, query string, filter searchFilter, copyURL bool) error {
	manager, err := c.openBookmarks()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results := search.FuzzySearchBookmarks(filter.apply(manager.Snapshot()), query)
	c.log.Debug().Str("query", query).Int("results", len(results)).Msg("search")

	if len(results) == 0 {
		fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
		return nil
	}

	selected := results[0].Bookmark
	action := picker.ActionOpen
	if len(results) > 1 {
		final, err := c.runPicker(cmd, picker.New(results, query))
		if err != nil {
			return err
		}
		if final.Cancelled() {
			return nil
		}
		selected, action = final.SelectedBookmark(), final.Action()
	}
	if copyURL {
		action = picker.ActionCopy
	}

	if action == picker.ActionCopy {
		if err := c.copyText(selected.URL); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(out, "Copied: %s\n", selected.URL)
		return nil
	}

	fmt.Fprintf(out, "Opening: %s\n", selected.URL)
	if err := manager.Visit(selected.URL); err != nil {
		c.log.Warn().Err(err).Str("url", selected.URL).Msg("record visit")
	}
	return c.openURL(selected.URL)
}
