package watch

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidParserType is returned for parser values other than json, regex, or html
	ErrInvalidParserType = errors.New("invalid parser type: must be 'json', 'regex', or 'html'")
	// ErrMissingURL is returned when a source override carries no url
	ErrMissingURL = errors.New("missing required field: url")
	// ErrMissingPath is returned when a json source carries no path
	ErrMissingPath = errors.New("missing required field: path (required for json parser)")
	// ErrMissingPattern is returned when a regex source carries no pattern
	ErrMissingPattern = errors.New("missing required field: pattern (required for regex parser)")
	// ErrMissingSelector is returned when an html source carries neither selector nor xpath
	ErrMissingSelector = errors.New("missing required field: selector or xpath (required for html parser)")
)

// Source describes where and how to find a package's latest upstream release.
type Source struct {
	// URL is queried for version information
	URL string `toml:"url"`
	// Parser selects the extraction strategy: "json", "regex", or "html"
	Parser string `toml:"parser"`
	// Path is the JSON path to the version field (json parser)
	Path string `toml:"path,omitempty"`
	// Pattern is a regex whose first capture group is the version (regex
	// parser, or post-filter for the html parser)
	Pattern string `toml:"pattern,omitempty"`
	// Selector is a CSS selector naming the version element (html parser)
	Selector string `toml:"selector,omitempty"`
	// XPath is an XPath expression naming the version element (html parser)
	XPath string `toml:"xpath,omitempty"`

	// FallbackURL is tried when the primary source fails
	FallbackURL string `toml:"fallback_url,omitempty"`
	// FallbackParser is the parser type for the fallback URL
	FallbackParser string `toml:"fallback_parser,omitempty"`
	// FallbackPath is the JSON path for a json fallback; empty reuses Path
	FallbackPath string `toml:"fallback_path,omitempty"`
	// FallbackPattern is the pattern for a regex or html fallback
	FallbackPattern string `toml:"fallback_pattern,omitempty"`

	// Headers are extra request headers; values may reference environment
	// variables as ${VAR_NAME}
	Headers map[string]string `toml:"headers,omitempty"`
}

// Overrides maps package names to their source overrides, as read from
// watch.toml. Packages without an override use DefaultSource.
type Overrides map[string]Source

// DefaultSource is the PyPI JSON endpoint every package starts from.
func DefaultSource(name string) Source {
	return Source{
		URL:    fmt.Sprintf("https://pypi.org/pypi/%s/json", name),
		Parser: "json",
		Path:   "info.version",
	}
}

// LoadOverrides reads watch.toml from path. The file is optional: a missing
// file means every package watches its default source.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var overrides Overrides
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for pkg, src := range overrides {
		if err := ValidateSource(pkg, src); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return overrides, nil
}

// ValidateSource checks an override for the fields its parser type needs.
func ValidateSource(pkg string, src Source) error {
	if src.URL == "" {
		return fmt.Errorf("package %s: %w", pkg, ErrMissingURL)
	}
	if err := validateParser(pkg, src.Parser, src.Path, src.Pattern, src.Selector, src.XPath); err != nil {
		return err
	}

	if src.FallbackURL != "" {
		path := src.FallbackPath
		if path == "" {
			path = src.Path
		}
		return validateParser(pkg, src.FallbackParser, path, src.FallbackPattern, src.Selector, src.XPath)
	}
	return nil
}

func validateParser(pkg, parser, path, pattern, selector, xpath string) error {
	switch parser {
	case "json":
		if path == "" {
			return fmt.Errorf("package %s: %w", pkg, ErrMissingPath)
		}
	case "regex":
		if pattern == "" {
			return fmt.Errorf("package %s: %w", pkg, ErrMissingPattern)
		}
	case "html":
		if selector == "" && xpath == "" {
			return fmt.Errorf("package %s: %w", pkg, ErrMissingSelector)
		}
	default:
		return fmt.Errorf("package %s: %w: got %q", pkg, ErrInvalidParserType, parser)
	}
	return nil
}

// fallback returns the source to try when the primary fails, and whether one
// is configured.
func (s Source) fallback() (Source, bool) {
	if s.FallbackURL == "" || s.FallbackParser == "" {
		return Source{}, false
	}
	path := s.FallbackPath
	if path == "" {
		path = s.Path
	}
	return Source{
		URL:      s.FallbackURL,
		Parser:   s.FallbackParser,
		Path:     path,
		Pattern:  s.FallbackPattern,
		Selector: s.Selector,
		XPath:    s.XPath,
		Headers:  s.Headers,
	}, true
}
