// Package browser holds the handlers bound to browser commands that act on
// the page currently shown.
package browser

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/pagemark/internal/downloads"
	"github.com/nikbrunner/pagemark/internal/urls"
)

// Messages shown to the user.
const (
	msgAlreadyBookmarked = "The current page is already in the bookmarks"
	msgNotBookmarked     = "The current page is not in the bookmarks"
	msgNoPageNumber      = "No page number found in the current URL"
	tagsPrompt           = "Bookmark tags (separated by comma):"
)

// Webview is the widget displaying the current page.
type Webview interface {
	// URI returns the address of the current page, or false if none is loaded.
	URI() (string, bool)
	Title() string
	LoadURI(uri string) error
}

// Shell is the application window around the webview.
type Shell interface {
	Info(message string)
	Error(err error)
	// BlockingInput asks the user for a line of text, pre-filled with
	// defaultAnswer. Returns false if the user cancelled.
	BlockingInput(prompt, defaultAnswer string) (string, bool)
}

// BookmarkManager stores bookmarks keyed by URL.
type BookmarkManager interface {
	Add(url, title string) (bool, error)
	Delete(url string) (bool, error)
	Tags(url string) ([]string, bool)
	SetTags(url string, tags []string) error
}

// App binds the page commands to their collaborators.
type App struct {
	webview   Webview
	shell     Shell
	bookmarks BookmarkManager
	log       zerolog.Logger
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Webview   Webview
	Shell     Shell
	Bookmarks BookmarkManager
	Logger    *zerolog.Logger // optional, discards if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) *App {
	log := zerolog.Nop()
	if params.Logger != nil {
		log = *params.Logger
	}

	return &App{
		webview:   params.Webview,
		shell:     params.Shell,
		bookmarks: params.Bookmarks,
		log:       log.With().Str("component", "browser").Logger(),
	}
}

// Bookmark adds the current page to the bookmarks.
func (a *App) Bookmark() {
	url, ok := a.webview.URI()
	if !ok {
		return
	}

	added, err := a.bookmarks.Add(url, a.webview.Title())
	switch {
	case err != nil:
		a.showError(err)
	case added:
		a.shell.Info("Added bookmark: " + url)
	default:
		a.shell.Info(msgAlreadyBookmarked)
	}
}

// DeleteBookmark deletes the current page from the bookmarks.
func (a *App) DeleteBookmark() {
	url, ok := a.webview.URI()
	if !ok {
		return
	}

	deleted, err := a.bookmarks.Delete(url)
	switch {
	case err != nil:
		a.showError(err)
	case deleted:
		a.shell.Info("Deleted bookmark: " + url)
	default:
		a.shell.Info(msgNotBookmarked)
	}
}

// EditBookmarkTags edits the tags of the current page's bookmark.
func (a *App) EditBookmarkTags() {
	url, ok := a.webview.URI()
	if !ok {
		return
	}

	tags, ok := a.bookmarks.Tags(url)
	if !ok {
		a.shell.Info(msgNotBookmarked)
		return
	}

	// A cancelled prompt counts as an empty answer and clears the tags.
	input, _ := a.shell.BlockingInput(tagsPrompt, strings.Join(tags, ", "))

	if err := a.bookmarks.SetTags(url, ParseTags(input)); err != nil {
		a.showError(err)
	}
}

// NextPage loads the current URL with its page number incremented.
func (a *App) NextPage() {
	a.offsetPage(1)
}

// PreviousPage loads the current URL with its page number decremented.
func (a *App) PreviousPage() {
	a.offsetPage(-1)
}

func (a *App) offsetPage(delta int32) {
	url, ok := a.webview.URI()
	if !ok {
		return
	}

	next, ok := urls.Offset(url, delta)
	if !ok {
		a.shell.Info(msgNoPageNumber)
		return
	}

	a.log.Debug().Str("from", url).Str("to", next).Msg("page offset")
	if err := a.webview.LoadURI(next); err != nil {
		a.showError(fmt.Errorf("load %s: %w", next, err))
	}
}

// DownloadDestination returns where a download of the current page is saved.
// Returns false if no page is loaded.
func (a *App) DownloadDestination() (string, bool) {
	url, ok := a.webview.URI()
	if !ok {
		return "", false
	}
	return downloads.Destination(url), true
}

func (a *App) showError(err error) {
	a.log.Error().Err(err).Msg("command failed")
	a.shell.Error(err)
}

// ParseTags splits comma separated input into trimmed lowercase tags.
func ParseTags(input string) []string {
	parts := strings.Split(input, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tags = append(tags, strings.ToLower(strings.TrimSpace(part)))
	}
	return tags
}
