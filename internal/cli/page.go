package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/browser"
	"github.com/nikbrunner/pagemark/internal/downloads"
	"github.com/nikbrunner/pagemark/internal/shell"
)

// reportingShell remembers whether an error was shown.
type reportingShell struct {
	browser.Shell
	failed bool
}

func (s *reportingShell) Error(err error) {
	s.failed = true
	s.Shell.Error(err)
}

// pageFlags describe the page a page command acts on.
type pageFlags struct {
	title string
	print bool
}

// runPage builds the page handlers for url and runs action on them.
func (c *cli) runPage(cmd *cobra.Command, url string, flags pageFlags, action func(app *browser.App)) error {
	manager, err := c.openBookmarks()
	if err != nil {
		return err
	}

	open := c.openURL
	if flags.print {
		open = func(next string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), next)
			return err
		}
	}

	sh := &reportingShell{Shell: c.newShell(cmd, &c.log)}
	if completer, ok := sh.Shell.(interface{ SetCompletions([]string) }); ok {
		completer.SetCompletions(manager.Snapshot().AllTags())
	}

	action(browser.NewApp(browser.AppParams{
		Webview:   shell.NewPage(url, flags.title, open),
		Shell:     sh,
		Bookmarks: manager,
		Logger:    &c.log,
	}))

	if sh.failed {
		return errSilent
	}
	return nil
}

func addCmd(c *cli) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Bookmark a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPage(cmd, args[0], flags, (*browser.App).Bookmark)
		},
	}
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "title of the page")
	return cmd
}

func deleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <url>",
		Aliases: []string{"rm"},
		Short:   "Delete the bookmark of a page",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPage(cmd, args[0], pageFlags{}, (*browser.App).DeleteBookmark)
		},
	}
}

func tagsCmd(c *cli) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "tags <url>",
		Short: "Edit the tags of a bookmarked page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list {
				return c.runPage(cmd, args[0], pageFlags{}, (*browser.App).EditBookmarkTags)
			}

			manager, err := c.openBookmarks()
			if err != nil {
				return err
			}
			tags, ok := manager.Tags(args[0])
			if !ok {
				return fmt.Errorf("%s is not bookmarked", args[0])
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "print the tags instead of editing them")
	return cmd
}

func nextCmd(c *cli) *cobra.Command {
	return offsetCmd(c, "next", "Open the next page of a paginated URL", (*browser.App).NextPage)
}

func prevCmd(c *cli) *cobra.Command {
	return offsetCmd(c, "prev", "Open the previous page of a paginated URL", (*browser.App).PreviousPage)
}

func offsetCmd(c *cli, name, short string, action func(*browser.App)) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   name + " <url>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPage(cmd, args[0], flags, action)
		},
	}
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false, "print the new URL instead of opening it")
	return cmd
}

func downloadDirCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "download-dir [url]",
		Short: "Print the download directory, or where a download of url is saved",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), downloads.Dir())
				return nil
			}

			app := browser.NewApp(browser.AppParams{
				Webview: shell.NewPage(args[0], "", c.openURL),
				Logger:  &c.log,
			})
			dest, ok := app.DownloadDestination()
			if !ok {
				return errSilent
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}
}
