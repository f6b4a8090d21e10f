// Package watch resolves the latest upstream releases of configured packages
// so stale version pins in feedstocks.yml are noticed before a feedstock
// falls behind.
//
// The package implements:
//   - Per-package source overrides via watch.toml (JSON, regex, and HTML
//     extraction)
//   - A retrying HTTP client for best-effort release endpoints
//   - A TTL cache for upstream answers under the user config directory
//
// Every package defaults to its PyPI JSON endpoint; watch.toml next to
// feedstocks.yml overrides the URL and parser per package.
//
// Usage:
//
//	watcher, err := watch.NewWatcher(configDir, overrides)
//	if err != nil {
//	    return err
//	}
//	statuses := watcher.Watch(cfg.Entries())
package watch
