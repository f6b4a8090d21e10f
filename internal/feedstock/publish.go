package feedstock

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/condatools/feedstocks/internal/common/output"
)

var (
	// ErrPublish indicates an artifact upload failed
	ErrPublish = errors.New("artifact upload failed")
)

// UploadResult is the outcome of publishing one artifact.
type UploadResult struct {
	File string // local path
	URL  string // destination
	Err  error
}

// UploadFailures counts the failed uploads.
func UploadFailures(results []UploadResult) int {
	count := 0
	for _, r := range results {
		if r.Err != nil {
			count++
		}
	}
	return count
}

// Publish uploads every built .tar.bz2 under <dir>/build to the channel
// repository at base, one HTTP PUT per file at <base>/<channel>/<filename>.
// Per-file failures are recorded and do not stop the remaining uploads.
func Publish(client *http.Client, dir, base string) ([]UploadResult, error) {
	buildDir := filepath.Join(dir, buildSubdir)
	channels, err := os.ReadDir(buildDir)
	if err != nil {
		return nil, err
	}

	var results []UploadResult
	for _, channel := range channels {
		if !channel.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(buildDir, channel.Name()))
		if err != nil {
			return results, err
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".tar.bz2") {
				continue
			}
			local := filepath.Join(buildDir, channel.Name(), file.Name())
			url := strings.TrimSuffix(base, "/") + "/" + channel.Name() + "/" + file.Name()
			output.Printf(output.Info, "> %s\n", local)
			results = append(results, UploadResult{File: local, URL: url, Err: upload(client, local, url)})
		}
	}
	return results, nil
}

func upload(client *http.Client, local, url string) error {
	f, err := os.Open(local)
	if err != nil {
		return errors.Join(ErrPublish, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Join(ErrPublish, err)
	}

	req, err := http.NewRequest(http.MethodPut, url, f)
	if err != nil {
		return errors.Join(ErrPublish, err)
	}
	req.ContentLength = info.Size()

	resp, err := client.Do(req)
	if err != nil {
		return errors.Join(ErrPublish, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Join(ErrPublish, fmt.Errorf("PUT %s: status %d", url, resp.StatusCode))
	}
	return nil
}
