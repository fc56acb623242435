package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/pagemark/internal/model"
)

// Backend names accepted in Config.Backend.
const (
	BackendAuto   = ""
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the store from the JSON file.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	var store model.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	// Ensure slices are not nil
	if store.Folders == nil {
		store.Folders = []model.Folder{}
	}
	if store.Bookmarks == nil {
		store.Bookmarks = []model.Bookmark{}
	}

	return &store, nil
}

// Save writes the store to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}

	// Replace atomically via a sibling temp file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// DataDir returns the directory holding bookmarks and config: ~/.config/pagemark
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pagemark"), nil
}

// DefaultJSONPath returns the default JSON store path: ~/.config/pagemark/bookmarks.json
func DefaultJSONPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.json"), nil
}

// Open opens the storage backend selected by cfg.
// With no explicit backend, SQLite is used if its database file exists,
// otherwise JSON. Empty paths in cfg fall back to the defaults.
func Open(cfg Config) (Storage, error) {
	sqlitePath := cfg.SQLitePath
	if sqlitePath == "" {
		p, err := DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
		sqlitePath = p
	}

	jsonPath := cfg.JSONPath
	if jsonPath == "" {
		p, err := DefaultJSONPath()
		if err != nil {
			return nil, err
		}
		jsonPath = p
	}

	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteStorage(sqlitePath)
	case BackendJSON:
		return NewJSONStorage(jsonPath), nil
	case BackendAuto:
		if _, err := os.Stat(sqlitePath); err == nil {
			return NewSQLiteStorage(sqlitePath)
		}
		return NewJSONStorage(jsonPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Close releases s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
