package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/condatools/feedstocks/internal/common/conda"
	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
)

// WatchStatus is the per-package outcome of a watch run.
type WatchStatus struct {
	Package  string
	Expected string
	Latest   string // empty when no upstream version was found
	// Stale means upstream released something newer than the pin
	Stale bool
	// FromCache means Latest was answered without a network request
	FromCache bool
	Err       error
}

// Watcher resolves the latest upstream release of configured packages.
type Watcher struct {
	overrides Overrides
	cache     *Cache
	client    *Client
	noCache   bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithCache injects a cache, for tests.
func WithCache(cache *Cache) WatcherOption {
	return func(w *Watcher) {
		w.cache = cache
	}
}

// WithClient injects an HTTP client.
func WithClient(client *Client) WatcherOption {
	return func(w *Watcher) {
		w.client = client
	}
}

// WithNoCache bypasses the cache for reads; fresh answers are still stored.
func WithNoCache(noCache bool) WatcherOption {
	return func(w *Watcher) {
		w.noCache = noCache
	}
}

// NewWatcher builds a watcher whose cache lives under configDir.
func NewWatcher(configDir string, overrides Overrides, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{overrides: overrides}
	for _, opt := range opts {
		opt(w)
	}

	if w.cache == nil {
		cache, err := NewCache(configDir)
		if err != nil {
			return nil, err
		}
		w.cache = cache
	}
	if w.client == nil {
		w.client = NewClient()
	}
	return w, nil
}

// sourceFor returns the override for a package, or its default PyPI source.
func (w *Watcher) sourceFor(name string) Source {
	if src, ok := w.overrides[name]; ok {
		return src
	}
	return DefaultSource(name)
}

// Watch resolves every entry, in input order, one status per entry. Failures
// degrade to a per-package status; they never suppress the other entries.
func (w *Watcher) Watch(entries []config.Entry) []WatchStatus {
	statuses := make([]WatchStatus, 0, len(entries))
	for _, entry := range entries {
		statuses = append(statuses, w.Check(entry))
	}
	return statuses
}

// Check resolves the latest upstream release for one entry.
func (w *Watcher) Check(entry config.Entry) WatchStatus {
	status := WatchStatus{Package: entry.Name, Expected: entry.ExpectedVersion}
	src := w.sourceFor(entry.Name)

	if !w.noCache {
		if version, ok := w.cache.Get(entry.Name); ok {
			status.Latest = version
			status.FromCache = true
			status.Stale = conda.CompareVersions(version, entry.ExpectedVersion) > 0
			return status
		}
	}

	version, source, err := w.resolve(entry.Name, src)
	if err != nil {
		status.Err = err
		logger.Warn("watching %s: %v", entry.Name, err)
		return status
	}

	if err := w.cache.Set(entry.Name, version, source); err != nil {
		logger.Warn("caching %s: %v", entry.Name, err)
	}

	status.Latest = version
	status.Stale = conda.CompareVersions(version, entry.ExpectedVersion) > 0
	return status
}

// resolve tries the primary source, then the fallback when one is configured.
// Returns the version and the URL that answered.
func (w *Watcher) resolve(name string, src Source) (string, string, error) {
	version, err := w.fetchAndParse(src)
	if err == nil {
		return version, src.URL, nil
	}
	primaryErr := err

	if fallback, ok := src.fallback(); ok {
		version, err = w.fetchAndParse(fallback)
		if err == nil {
			return version, fallback.URL, nil
		}
	}

	return "", "", fmt.Errorf("%w: %v", ErrNoVersionFound, primaryErr)
}

func (w *Watcher) fetchAndParse(src Source) (string, error) {
	parser, err := NewParser(src)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := w.client.Get(ctx, src.URL, src.Headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", src.URL, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parser.Parse(content)
}

// FormatWatchLine renders one watch line.
func FormatWatchLine(s WatchStatus) string {
	name := output.FormatPackage(s.Package)
	switch {
	case s.Err != nil || s.Latest == "":
		return fmt.Sprintf("%s: %s", name, output.Sprint(output.Missing, "no upstream version found"))
	case s.Stale:
		return fmt.Sprintf("%s: %s", name,
			output.Sprintf(output.Outdated, "%s -> %s (new upstream release)", s.Expected, s.Latest))
	default:
		return fmt.Sprintf("%s: %s", name, output.Sprint(output.UpToDate, "expected version is current"))
	}
}

// FormatWatchReport renders every watch line.
func FormatWatchReport(statuses []WatchStatus) string {
	var sb strings.Builder
	for _, status := range statuses {
		sb.WriteString(FormatWatchLine(status))
		sb.WriteString("\n")
	}
	return sb.String()
}
