package shell

import (
	"os/exec"
	"runtime"
)

// Page is a webview stand-in for a page identified by its URL and title.
// Loading a URI hands it to the system browser.
type Page struct {
	uri   string
	title string
	open  func(uri string) error
}

// NewPage returns a Page showing uri. An empty uri means no page is loaded.
// LoadURI hands new addresses to open, or to OpenURL if open is nil.
func NewPage(uri, title string, open func(uri string) error) *Page {
	if open == nil {
		open = OpenURL
	}
	return &Page{uri: uri, title: title, open: open}
}

// URI implements browser.Webview.
func (p *Page) URI() (string, bool) {
	return p.uri, p.uri != ""
}

// Title implements browser.Webview.
func (p *Page) Title() string {
	return p.title
}

// LoadURI implements browser.Webview.
func (p *Page) LoadURI(uri string) error {
	if err := p.open(uri); err != nil {
		return err
	}
	p.uri = uri
	p.title = ""
	return nil
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
