// Package feedstock implements the conda-forge maintenance workflows:
// listing version status, updating published feedstocks, staging new
// recipes, and the local generate/build/publish loop.
package feedstock

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/condatools/feedstocks/internal/common/config"
)

const defaultMetaBaseURL = "https://raw.githubusercontent.com/conda-forge"

var (
	// ErrFetch indicates the published recipe could not be retrieved
	ErrFetch = errors.New("feedstock fetch failed")
	// ErrNotFound indicates the feedstock is not published
	ErrNotFound = errors.New("feedstock not found")
	// ErrNoVersion indicates the recipe carries no version variable
	ErrNoVersion = errors.New("meta.yaml carries no version variable")
)

// versionDirective matches the version pin grayskull writes into meta.yaml
var versionDirective = regexp.MustCompile(`{%\s*set\s+version\s*=\s*"(.*?)"\s*%}`)

// MetaSource resolves the published recipe of a feedstock.
type MetaSource interface {
	// FetchMeta returns the raw recipe/meta.yaml of
	// conda-forge/<name>-feedstock, or ErrNotFound when the feedstock
	// does not exist.
	FetchMeta(name string) (string, error)
}

// HTTPMetaSource fetches recipes through the raw file endpoint of the
// conda-forge GitHub organization.
type HTTPMetaSource struct {
	BaseURL string
	Client  *http.Client
}

// NewMetaSource builds the production fetcher with a 30 second timeout.
func NewMetaSource() *HTTPMetaSource {
	return &HTTPMetaSource{
		BaseURL: defaultMetaBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPMetaSource) FetchMeta(name string) (string, error) {
	url := fmt.Sprintf("%s/%s-feedstock/master/recipe/meta.yaml", s.BaseURL, name)
	resp, err := s.Client.Get(url)
	if err != nil {
		return "", errors.Join(ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return "", errors.Join(ErrFetch, fmt.Errorf("GET %s: status %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Join(ErrFetch, err)
	}
	return string(body), nil
}

var _ MetaSource = (*HTTPMetaSource)(nil)

// VersionFromMeta extracts the pinned version from a raw meta.yaml.
func VersionFromMeta(meta string) (string, error) {
	m := versionDirective.FindStringSubmatch(meta)
	if m == nil {
		return "", ErrNoVersion
	}
	return m[1], nil
}

// PublishedVersion resolves the version currently published for a package.
func PublishedVersion(src MetaSource, name string) (string, error) {
	meta, err := src.FetchMeta(name)
	if err != nil {
		return "", err
	}
	return VersionFromMeta(meta)
}

// Unpublished returns, in input order, the entries whose feedstock does not
// exist yet. Any resolution failure other than not-found aborts: guessing
// wrong here would stage duplicate recipes.
func Unpublished(src MetaSource, entries []config.Entry) ([]config.Entry, error) {
	var missing []config.Entry
	for _, entry := range entries {
		_, err := src.FetchMeta(entry.Name)
		switch {
		case errors.Is(err, ErrNotFound):
			missing = append(missing, entry)
		case err != nil:
			return nil, err
		}
	}
	return missing, nil
}
