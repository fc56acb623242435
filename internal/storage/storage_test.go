package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bookmarks.json")

	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Development", ParentID: nil},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Test", URL: "https://example.com"},
		},
	}

	// Test Save
	s := storage.NewJSONStorage(configPath)
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	// Test Load
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Folders) != 1 {
		t.Errorf("expected 1 folder, got %d", len(loaded.Folders))
	}
	if len(loaded.Bookmarks) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(loaded.Bookmarks))
	}
	if loaded.Folders[0].Name != "Development" {
		t.Errorf("expected folder name 'Development', got %q", loaded.Folders[0].Name)
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent.json")

	s := storage.NewJSONStorage(configPath)
	store, err := s.Load()

	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	// Should return empty store
	if len(store.Folders) != 0 || len(store.Bookmarks) != 0 {
		t.Error("expected empty store for missing file")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	// Nested directory that doesn't exist
	configPath := filepath.Join(tmpDir, "nested", "dir", "bookmarks.json")

	store := &model.Store{
		Folders:   []model.Folder{},
		Bookmarks: []model.Bookmark{},
	}
	s := storage.NewJSONStorage(configPath)

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created in nested directory")
	}
}

func TestJSONStorage_PreservesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bookmarks.json")

	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "First"},
			{ID: "f2", Name: "Second"},
			{ID: "f3", Name: "Third"},
		},
		Bookmarks: []model.Bookmark{},
	}

	s := storage.NewJSONStorage(configPath)
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	// Verify order is preserved
	expectedNames := []string{"First", "Second", "Third"}
	for i, name := range expectedNames {
		if loaded.Folders[i].Name != name {
			t.Errorf("order not preserved: expected %q at position %d, got %q",
				name, i, loaded.Folders[i].Name)
		}
	}
}

func TestJSONStorage_NoTempFileLeftBehind(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bookmarks.json")

	s := storage.NewJSONStorage(configPath)
	if err := s.Save(model.NewStore()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should have been renamed")
	}
}

func TestJSONStorage_LoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bookmarks.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewJSONStorage(configPath).Load()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	tests := []struct {
		name       string
		backend    string
		existingDB bool
		wantSQL    bool
	}{
		{name: "explicit json", backend: storage.BackendJSON},
		{name: "explicit sqlite", backend: storage.BackendSQLite, wantSQL: true},
		{name: "auto without database", backend: storage.BackendAuto},
		{name: "auto with database", backend: storage.BackendAuto, existingDB: true, wantSQL: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			sqlitePath := filepath.Join(tmpDir, "bookmarks.db")

			if tt.existingDB {
				s, err := storage.NewSQLiteStorage(sqlitePath)
				if err != nil {
					t.Fatal(err)
				}
				s.Close()
			}

			s, err := storage.Open(storage.Config{
				Backend:    tt.backend,
				JSONPath:   filepath.Join(tmpDir, "bookmarks.json"),
				SQLitePath: sqlitePath,
			})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer storage.Close(s)

			_, isSQL := s.(*storage.SQLiteStorage)
			if isSQL != tt.wantSQL {
				t.Errorf("expected sqlite=%v, got %T", tt.wantSQL, s)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := storage.Open(storage.Config{Backend: "redis", JSONPath: "x.json", SQLitePath: "x.db"})
	if !errors.Is(err, storage.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CullConcurrency != 10 || cfg.LogLevel != "warn" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should be created: %v", err)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend: sqlite
logLevel: debug
cullExcludeDomains:
  - example.com
cullTimeoutSeconds: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != storage.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug level, got %q", cfg.LogLevel)
	}
	if len(cfg.CullExcludeDomains) != 1 || cfg.CullExcludeDomains[0] != "example.com" {
		t.Errorf("unexpected exclude domains: %v", cfg.CullExcludeDomains)
	}
	if cfg.CullTimeout() != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.CullTimeout())
	}
	// Missing field falls back to default
	if cfg.CullConcurrency != 10 {
		t.Errorf("expected default concurrency, got %d", cfg.CullConcurrency)
	}
}

func TestSaveConfig_RoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := storage.DefaultConfig()
	cfg.Backend = storage.BackendJSON

	if err := storage.SaveConfig(path, &cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Backend != storage.BackendJSON {
		t.Errorf("expected json backend, got %q", loaded.Backend)
	}
}
