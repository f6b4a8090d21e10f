package feedstock

import (
	"path"
	"strings"

	"github.com/condatools/feedstocks/internal/common/config"
)

// MatchPattern reports whether a package name matches a listing pattern.
// Patterns without glob metacharacters compare exactly; anything else goes
// through path.Match, so `py*` and `lib?` work the way shells read them.
func MatchPattern(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return name == pattern
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// FilterEntries keeps the entries matching any of the patterns, preserving
// configuration order. No patterns means every entry.
func FilterEntries(entries []config.Entry, patterns []string) []config.Entry {
	if len(patterns) == 0 {
		return entries
	}

	var kept []config.Entry
	for _, entry := range entries {
		for _, pattern := range patterns {
			if MatchPattern(entry.Name, pattern) {
				kept = append(kept, entry)
				break
			}
		}
	}
	return kept
}
