// Package downloads decides where downloaded files are saved.
package downloads

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nikbrunner/pagemark/internal/urls"
)

// fallbackName is used when a URL has no usable last path segment.
const fallbackName = "download"

// userDownloadDir is replaced in tests.
var userDownloadDir = func() string {
	return xdg.UserDirs.Download
}

// Dir returns the download directory if it can be retrieved, else the home
// directory, else the temporary directory. The result always ends with a
// path separator.
func Dir() string {
	dir := userDownloadDir()
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		} else {
			dir = os.TempDir()
		}
	}

	sep := string(filepath.Separator)
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return dir
}

// Destination returns the path a download of rawURL is saved to.
func Destination(rawURL string) string {
	name, ok := urls.GetFilename(rawURL)
	if !ok || name == "" || name == "." || name == ".." {
		name = fallbackName
	}
	return filepath.Join(Dir(), filepath.Base(name))
}
