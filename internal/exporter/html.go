// Package exporter writes the store as a Netscape bookmark file that
// browsers can import.
package exporter

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/pagemark/internal/downloads"
	"github.com/nikbrunner/pagemark/internal/model"
)

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
`

const footer = "</DL><p>\n"

// DefaultExportPath returns the export file path for the given day inside
// the download directory, e.g. ~/Downloads/bookmarks-export-2024-05-01.html.
func DefaultExportPath(now time.Time) string {
	filename := fmt.Sprintf("bookmarks-export-%s.html", now.Format("2006-01-02"))
	return filepath.Join(downloads.Dir(), filename)
}

// ExportHTML exports the store to Netscape bookmark HTML format.
func ExportHTML(store *model.Store) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = Export(&b, store)
	return b.String()
}

// Export writes the store to w in Netscape bookmark HTML format.
func Export(w io.Writer, store *model.Store) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	writeItems(bw, store, nil, 1)
	bw.WriteString(footer)
	return bw.Flush()
}

// ExportFile writes the store to path, creating parent directories.
func ExportFile(path string, store *model.Store) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(f, store); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}

// writeItems writes the folders, then the bookmarks, under parentID.
func writeItems(w *bufio.Writer, store *model.Store, parentID *string, depth int) {
	indent := strings.Repeat("    ", depth)

	for _, folder := range store.GetFoldersInFolder(parentID) {
		fmt.Fprintf(w, "%s<DT><H3>%s</H3>\n", indent, html.EscapeString(folder.Name))
		fmt.Fprintf(w, "%s<DL><p>\n", indent)
		id := folder.ID
		writeItems(w, store, &id, depth+1)
		fmt.Fprintf(w, "%s</DL><p>\n", indent)
	}

	for _, bookmark := range store.GetBookmarksInFolder(parentID) {
		fmt.Fprintf(w, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
			indent,
			html.EscapeString(bookmark.URL),
			bookmark.CreatedAt.Unix(),
			optionalAttrs(bookmark),
			html.EscapeString(bookmark.Title),
		)
	}
}

func optionalAttrs(b model.Bookmark) string {
	var attrs strings.Builder
	if b.VisitedAt != nil {
		fmt.Fprintf(&attrs, " LAST_VISIT=\"%d\"", b.VisitedAt.Unix())
	}
	if len(b.Tags) > 0 {
		fmt.Fprintf(&attrs, " TAGS=\"%s\"", html.EscapeString(strings.Join(b.Tags, ",")))
	}
	return attrs.String()
}
