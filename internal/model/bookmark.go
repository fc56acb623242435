package model

import (
	"strings"
	"time"
)

// Bookmark represents a saved page with metadata.
type Bookmark struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	FolderID  *string    `json:"folderId"` // nil = root level
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"createdAt"`
	VisitedAt *time.Time `json:"visitedAt"` // nil = never visited
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title    string
	URL      string
	FolderID *string
	Tags     []string
}

// NewBookmark creates a Bookmark with generated UUID and timestamps.
func NewBookmark(params NewBookmarkParams) Bookmark {
	return Bookmark{
		ID:        GenerateUUID(),
		Title:     params.Title,
		URL:       params.URL,
		FolderID:  params.FolderID,
		Tags:      NormalizeTags(params.Tags),
		CreatedAt: time.Now(),
		VisitedAt: nil,
	}
}

// NormalizeTags trims and lowercases tags, dropping empty and repeated ones.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	result := []string{}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
