package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound   = errors.New("feedstocks.yml not found: run 'feedstocks init' to create one")
	ErrMalformedEntry   = errors.New("feedstock entry must be of the form name@version")
	ErrDuplicatePackage = errors.New("duplicate package in feedstocks list")
	ErrUnknownPackage   = errors.New("package is not declared in feedstocks.yml")
	ErrGitHubUserNotSet = errors.New("github_user is not configured in feedstocks.yml")
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "feedstocks.yml"

// Entry is one configured feedstock: a package name and the version the
// operator expects it to be published at.
type Entry struct {
	Name            string
	ExpectedVersion string
}

// String returns the entry in its configuration form.
func (e Entry) String() string {
	return e.Name + "@" + e.ExpectedVersion
}

// Config represents the feedstocks.yml configuration
type Config struct {
	GitHubUser   string   `yaml:"github_user"`
	Feedstocks   []string `yaml:"feedstocks"`
	CondaBinPath string   `yaml:"conda_bin,omitempty"`
	GrayskullBin string   `yaml:"grayskull_bin,omitempty"`
	GitHubToken  string   `yaml:"github_token,omitempty"`
	AfterClone   string   `yaml:"after_clone,omitempty"`

	entries []Entry
}

// Load reads and validates the configuration from path. Unlike most of this
// tool's state the configuration is never created implicitly: a missing file
// is an error so that a typo'd --config or a wrong working directory is
// caught before any network or Git activity.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (looked for %s)", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.parseEntries(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// parseEntries validates the feedstocks list and materializes the ordered
// Entry slice. Order is preserved as written; names must be unique.
func (c *Config) parseEntries() error {
	seen := make(map[string]bool, len(c.Feedstocks))
	entries := make([]Entry, 0, len(c.Feedstocks))

	for _, raw := range c.Feedstocks {
		entry, err := ParseEntry(raw)
		if err != nil {
			return err
		}
		if seen[entry.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicatePackage, entry.Name)
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	}

	c.entries = entries
	return nil
}

// ParseEntry splits a "name@version" configuration string.
func ParseEntry(raw string) (Entry, error) {
	parts := strings.Split(raw, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformedEntry, raw)
	}
	return Entry{Name: parts[0], ExpectedVersion: parts[1]}, nil
}

// Entries returns the configured feedstocks in file order.
func (c *Config) Entries() []Entry {
	return c.entries
}

// Names returns the configured package names in file order.
func (c *Config) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// ExpectedVersion resolves the version pin for a package name.
func (c *Config) ExpectedVersion(name string) (string, error) {
	for _, e := range c.entries {
		if e.Name == name {
			return e.ExpectedVersion, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPackage, name)
}

// CondaBin returns the conda executable to invoke, expanding a leading ~.
func (c *Config) CondaBin() string {
	if c.CondaBinPath == "" {
		return "conda"
	}
	return expandHome(c.CondaBinPath)
}

// Grayskull returns the recipe generator executable to invoke.
func (c *Config) Grayskull() string {
	if c.GrayskullBin == "" {
		return "grayskull"
	}
	return expandHome(c.GrayskullBin)
}

// RequireGitHubUser returns the configured GitHub user or an error when the
// field is missing. Fork operations need it; listing does not.
func (c *Config) RequireGitHubUser() (string, error) {
	if c.GitHubUser == "" {
		return "", ErrGitHubUserNotSet
	}
	return c.GitHubUser, nil
}

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// SaveTo writes the configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultTemplate is the starter feedstocks.yml written by 'feedstocks init'.
const DefaultTemplate = `# GitHub account that owns the feedstock forks.
github_user: ""

# Packages this tool maintains, pinned to the version you expect upstream.
feedstocks: []
#  - mypackage@1.2.0

# Optional: conda executable used for 'smithy rerender' and builds.
#conda_bin: ~/miniconda3/bin/conda

# Optional: recipe generator executable.
#grayskull_bin: grayskull

# Optional: shell snippet run inside a repository right after cloning it.
#after_clone: git config user.email me@example.org
`

// ConfigDir returns the per-user directory for this tool's auxiliary state
// (watch cache and similar), following XDG conventions.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, "feedstocks"), nil
}
