package model

// Store holds all bookmarks and folders.
type Store struct {
	Folders   []Folder   `json:"folders"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Folders:   []Folder{},
		Bookmarks: []Bookmark{},
	}
}

// GetFoldersInFolder returns folders with the given parent ID.
// Pass nil for root level folders.
func (s *Store) GetFoldersInFolder(parentID *string) []Folder {
	var result []Folder
	for _, f := range s.Folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// GetBookmarksInFolder returns bookmarks in the given folder.
// Pass nil for root level bookmarks.
func (s *Store) GetBookmarksInFolder(folderID *string) []Bookmark {
	var result []Bookmark
	for _, b := range s.Bookmarks {
		if ptrEqual(b.FolderID, folderID) {
			result = append(result, b)
		}
	}
	return result
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (s *Store) GetFolderByID(id string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (s *Store) GetBookmarkByID(id string) *Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// GetBookmarkByURL finds a bookmark by its exact URL, returns nil if not found.
func (s *Store) GetBookmarkByURL(url string) *Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].URL == url {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// HasBookmarkURL reports whether a bookmark with the URL exists.
func (s *Store) HasBookmarkURL(url string) bool {
	return s.GetBookmarkByURL(url) != nil
}

// AddBookmark appends a bookmark to the store.
func (s *Store) AddBookmark(b Bookmark) {
	s.Bookmarks = append(s.Bookmarks, b)
}

// AddFolder appends a folder to the store.
func (s *Store) AddFolder(f Folder) {
	s.Folders = append(s.Folders, f)
}

// RemoveBookmarkByURL deletes every bookmark with the URL.
// Returns false when none matched.
func (s *Store) RemoveBookmarkByURL(url string) bool {
	kept := s.Bookmarks[:0]
	for _, b := range s.Bookmarks {
		if b.URL != url {
			kept = append(kept, b)
		}
	}
	removed := len(kept) != len(s.Bookmarks)
	s.Bookmarks = kept
	return removed
}

// RemoveBookmarksByID deletes the bookmarks with the given IDs and returns
// how many were removed.
func (s *Store) RemoveBookmarksByID(ids []string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.Bookmarks[:0]
	for _, b := range s.Bookmarks {
		if !drop[b.ID] {
			kept = append(kept, b)
		}
	}
	removed := len(s.Bookmarks) - len(kept)
	s.Bookmarks = kept
	return removed
}

// ImportMerge merges imported folders and bookmarks into the store.
// Folders with the same name under the same parent are reused, bookmarks
// whose URL already exists are skipped.
func (s *Store) ImportMerge(folders []Folder, bookmarks []Bookmark) (added, skipped int) {
	// imported folder ID -> folder ID in the store
	remap := make(map[string]string, len(folders))

	// Folders arrive parent-first from the importer, so parents are
	// already remapped when their children are processed.
	for _, f := range folders {
		var parentID *string
		if f.ParentID != nil {
			if mapped, ok := remap[*f.ParentID]; ok {
				parentID = &mapped
			} else {
				parentID = f.ParentID
			}
		}

		if existing := s.findFolder(f.Name, parentID); existing != nil {
			remap[f.ID] = existing.ID
			continue
		}

		f.ParentID = parentID
		s.Folders = append(s.Folders, f)
		remap[f.ID] = f.ID
	}

	for _, b := range bookmarks {
		if s.HasBookmarkURL(b.URL) {
			skipped++
			continue
		}
		if b.FolderID != nil {
			if mapped, ok := remap[*b.FolderID]; ok {
				b.FolderID = &mapped
			}
		}
		if b.Tags == nil {
			b.Tags = []string{}
		}
		s.Bookmarks = append(s.Bookmarks, b)
		added++
	}

	return added, skipped
}

// AllTags returns every distinct tag in the store, in first-seen order.
func (s *Store) AllTags() []string {
	var tags []string
	seen := make(map[string]bool)
	for _, b := range s.Bookmarks {
		for _, tag := range b.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (s *Store) findFolder(name string, parentID *string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].Name == name && ptrEqual(s.Folders[i].ParentID, parentID) {
			return &s.Folders[i]
		}
	}
	return nil
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
