// Package bookmarks manages the bookmarks of pages shown in the browser.
// Bookmarks are keyed by their exact URL.
package bookmarks

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/storage"
)

// ErrNotFound is returned when no bookmark has the requested URL.
var ErrNotFound = errors.New("bookmark not found")

// Manager is a bookmark store shared between handlers. Every mutation is
// persisted before the call returns.
type Manager struct {
	mu      sync.Mutex
	storage storage.Storage
	store   *model.Store
	log     zerolog.Logger
	now     func() time.Time
}

// ManagerParams holds parameters for creating a new Manager.
type ManagerParams struct {
	Storage storage.Storage
	Logger  *zerolog.Logger // optional, discards if nil
}

// NewManager loads the store from params.Storage and returns a Manager.
func NewManager(params ManagerParams) (*Manager, error) {
	log := zerolog.Nop()
	if params.Logger != nil {
		log = *params.Logger
	}

	store, err := params.Storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	return &Manager{
		storage: params.Storage,
		store:   store,
		log:     log.With().Str("component", "bookmarks").Logger(),
		now:     time.Now,
	}, nil
}

// Add bookmarks url with title. Returns false if url is already bookmarked.
func (m *Manager) Add(url, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store.HasBookmarkURL(url) {
		return false, nil
	}

	b := model.NewBookmark(model.NewBookmarkParams{Title: title, URL: url})
	b.CreatedAt = m.now()
	m.store.AddBookmark(b)

	if err := m.save(); err != nil {
		m.store.RemoveBookmarkByURL(url)
		return false, err
	}

	m.log.Debug().Str("url", url).Str("id", b.ID).Msg("bookmark added")
	return true, nil
}

// Delete removes the bookmark of url. Returns false if url is not bookmarked.
func (m *Manager) Delete(url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := slices.Clone(m.store.Bookmarks)
	if !m.store.RemoveBookmarkByURL(url) {
		return false, nil
	}

	if err := m.save(); err != nil {
		m.store.Bookmarks = before
		return false, err
	}

	m.log.Debug().Str("url", url).Msg("bookmark deleted")
	return true, nil
}

// Tags returns the tags of the bookmark of url, or false if url is not
// bookmarked.
func (m *Manager) Tags(url string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.store.GetBookmarkByURL(url)
	if b == nil {
		return nil, false
	}
	return slices.Clone(b.Tags), true
}

// SetTags replaces the tags of the bookmark of url.
// Tags are normalized with model.NormalizeTags.
func (m *Manager) SetTags(url string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.store.GetBookmarkByURL(url)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	previous := b.Tags
	b.Tags = model.NormalizeTags(tags)

	if err := m.save(); err != nil {
		b.Tags = previous
		return err
	}

	m.log.Debug().Str("url", url).Strs("tags", b.Tags).Msg("bookmark tags updated")
	return nil
}

// Visit records that the bookmark of url has just been opened.
func (m *Manager) Visit(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.store.GetBookmarkByURL(url)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	now := m.now()
	b.VisitedAt = &now
	return m.save()
}

// Update runs fn on the store under the manager lock and persists the result.
// fn must not call other Manager methods.
func (m *Manager) Update(fn func(store *model.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(m.store); err != nil {
		return err
	}
	return m.save()
}

// Snapshot returns a copy of the store for read-only use.
func (m *Manager) Snapshot() *model.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &model.Store{
		Folders:   slices.Clone(m.store.Folders),
		Bookmarks: slices.Clone(m.store.Bookmarks),
	}
}

func (m *Manager) save() error {
	if err := m.storage.Save(m.store); err != nil {
		m.log.Error().Err(err).Msg("save bookmarks")
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}
