package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/exporter"
	"github.com/nikbrunner/pagemark/internal/importer"
	"github.com/nikbrunner/pagemark/internal/model"
)

func importCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser's HTML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := c.openBookmarks()
			if err != nil {
				return err
			}

			folders, bookmarks, err := importer.ImportFile(args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			var added, skipped int
			err = manager.Update(func(store *model.Store) error {
				added, skipped = store.ImportMerge(folders, bookmarks)
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d bookmarks, %d folders", added, len(folders))
			if skipped > 0 {
				fmt.Fprintf(out, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func exportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to HTML (default: download directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := c.openBookmarks()
			if err != nil {
				return err
			}

			path := exporter.DefaultExportPath(time.Now())
			if len(args) == 1 {
				path = args[0]
			}

			store := manager.Snapshot()
			if err := exporter.ExportFile(path, store); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks, %d folders to %s\n",
				len(store.Bookmarks), len(store.Folders), path)
			return nil
		},
	}
}
