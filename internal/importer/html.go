// Package importer reads Netscape bookmark files as exported by browsers.
package importer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/pagemark/internal/model"
)

// parser walks a parsed bookmark document, tracking the enclosing folders.
type parser struct {
	folders   []model.Folder
	bookmarks []model.Bookmark

	stack   []*string // enclosing folder IDs, nil = root
	pending *string   // folder opened by the last H3, pushed at the next DL
	now     func() time.Time
}

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns folders + bookmarks.
func ParseHTMLBookmarks(r io.Reader) ([]model.Folder, []model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse bookmark html: %w", err)
	}

	p := &parser{now: time.Now}
	p.walk(doc)
	return p.folders, p.bookmarks, nil
}

// ImportFile parses the bookmark file at path.
func ImportFile(path string) ([]model.Folder, []model.Bookmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ParseHTMLBookmarks(f)
}

func (p *parser) parent() *string {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "h3":
			p.folder(n)
			return
		case "a":
			p.bookmark(n)
			return
		case "dl":
			p.list(n)
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *parser) folder(n *html.Node) {
	name := textContent(n)
	if name == "" {
		return
	}

	folder := model.NewFolder(model.NewFolderParams{
		Name:     name,
		ParentID: p.parent(),
	})
	p.folders = append(p.folders, folder)
	id := folder.ID
	p.pending = &id
}

func (p *parser) bookmark(n *html.Node) {
	href := attr(n, "href")
	if href == "" {
		return
	}

	title := textContent(n)
	if title == "" {
		title = href
	}

	createdAt := p.now()
	if ts, ok := unixAttr(n, "add_date"); ok {
		createdAt = ts
	}

	var visitedAt *time.Time
	if ts, ok := unixAttr(n, "last_visit"); ok {
		visitedAt = &ts
	}

	p.bookmarks = append(p.bookmarks, model.Bookmark{
		ID:        model.GenerateUUID(),
		Title:     title,
		URL:       href,
		FolderID:  p.parent(),
		Tags:      model.NormalizeTags(strings.Split(attr(n, "tags"), ",")),
		CreatedAt: createdAt,
		VisitedAt: visitedAt,
	})
}

// list handles a DL element, which holds the contents of the folder
// announced by the preceding H3 (or the root).
func (p *parser) list(n *html.Node) {
	pushed := p.pending != nil
	if pushed {
		p.stack = append(p.stack, p.pending)
		p.pending = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}

	if pushed {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func unixAttr(n *html.Node, key string) (time.Time, bool) {
	v := attr(n, key)
	if v == "" {
		return time.Time{}, false
	}
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}
