package search

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/urls"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for bookmark slice.
// Untitled bookmarks are matched by their URL.
type bookmarkTitles []*model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	if bt[i].Title == "" {
		return bt[i].URL
	}
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// FuzzySearchBookmarks searches all bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(store *model.Store, query string) []SearchResult {
	if query == "" {
		return nil
	}

	// Build slice of bookmark pointers
	bookmarks := make(bookmarkTitles, len(store.Bookmarks))
	for i := range store.Bookmarks {
		bookmarks[i] = &store.Bookmarks[i]
	}

	// Run fuzzy matching
	matches := fuzzy.FindFrom(query, bookmarks)

	// Convert to SearchResult
	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// FilterByTag returns the bookmarks carrying tag, compared case-insensitively.
func FilterByTag(store *model.Store, tag string) []*model.Bookmark {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var result []*model.Bookmark
	for i := range store.Bookmarks {
		if slices.Contains(store.Bookmarks[i].Tags, tag) {
			result = append(result, &store.Bookmarks[i])
		}
	}
	return result
}

// FilterByDomain returns the bookmarks whose base domain equals the base
// domain of domain, so "docs.go.dev" and "go.dev" match each other.
func FilterByDomain(store *model.Store, domain string) []*model.Bookmark {
	want, ok := urls.GetBaseURL("http://" + strings.ToLower(domain))
	if !ok || want == "" {
		return nil
	}

	var result []*model.Bookmark
	for i := range store.Bookmarks {
		if base, ok := urls.GetBaseURL(store.Bookmarks[i].URL); ok && strings.EqualFold(base, want) {
			result = append(result, &store.Bookmarks[i])
		}
	}
	return result
}
