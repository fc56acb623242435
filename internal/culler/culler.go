// Package culler checks bookmarked links and finds the dead ones.
package culler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/urls"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

const maxRedirects = 10

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   *model.Bookmark
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // reason for Unreachable
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Options configures a Checker.
type Options struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string        // base domains whose 404s may mean "private"
	Client         *http.Client    // optional
	Logger         *zerolog.Logger // optional, discards if nil
}

// Checker checks bookmark URLs concurrently.
type Checker struct {
	client      *http.Client
	concurrency int
	exclude     map[string]bool
	log         zerolog.Logger
}

// New creates a Checker from opts.
func New(opts Options) *Checker {
	l := zerolog.Nop()
	if opts.Logger != nil {
		l = *opts.Logger
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	exclude := make(map[string]bool, len(opts.ExcludeDomains))
	for _, domain := range opts.ExcludeDomains {
		if base, ok := urls.GetBaseURL("http://" + strings.ToLower(domain)); ok {
			exclude[base] = true
		}
	}

	return &Checker{
		client:      client,
		concurrency: max(1, opts.Concurrency),
		exclude:     exclude,
		log:         l,
	}
}

// Check checks all bookmark URLs and returns one result per bookmark, in
// input order. Bookmarks not checked before ctx is done are reported as
// Unreachable.
func (c *Checker) Check(ctx context.Context, bookmarks []model.Bookmark, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}

	// Silence the standard logger used by net/http while checking.
	original := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(original)

	results := make([]Result, len(bookmarks))
	jobs := make(chan int)
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for range c.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.checkURL(ctx, &bookmarks[idx])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	sent := 0
send:
	for ; sent < len(bookmarks); sent++ {
		select {
		case jobs <- sent:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	for i := sent; i < len(bookmarks); i++ {
		results[i] = Result{Bookmark: &bookmarks[i], Status: Unreachable, Error: "Cancelled"}
	}
	return results
}

func (c *Checker) checkURL(ctx context.Context, bookmark *model.Bookmark) Result {
	result := Result{Bookmark: bookmark}

	// HEAD first, GET for servers that refuse HEAD
	resp, err := c.do(ctx, http.MethodHead, bookmark.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = c.do(ctx, http.MethodGet, bookmark.URL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Error = normalizeError(err)
		c.log.Debug().Str("url", bookmark.URL).Err(err).Msg("unreachable")
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if c.isExcluded(bookmark.URL) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 403, 5xx and friends may be temporary or need auth
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	c.log.Debug().Str("url", bookmark.URL).Int("status", resp.StatusCode).Stringer("result", result.Status).Msg("checked")
	return result
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// isExcluded reports whether the base domain of rawURL is excluded, so
// "gist.github.com" is covered by "github.com".
func (c *Checker) isExcluded(rawURL string) bool {
	base, ok := urls.GetBaseURL(rawURL)
	return ok && c.exclude[strings.ToLower(base)]
}

// DeadBookmarkIDs returns the IDs of bookmarks found dead.
func DeadBookmarkIDs(results []Result) []string {
	var ids []string
	for _, r := range results {
		if r.Status == Dead {
			ids = append(ids, r.Bookmark.ID)
		}
	}
	return ids
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return err.Error()
	}
}
