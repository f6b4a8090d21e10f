package watch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// retryProbe serves canned status codes in order, repeating the last one, and
// records every request it sees.
type retryProbe struct {
	mu       sync.Mutex
	statuses []int
	requests []*http.Request
	headers  []http.Header
}

func (p *retryProbe) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		n := len(p.requests)
		p.requests = append(p.requests, r)
		p.headers = append(p.headers, r.Header.Clone())
		status := p.statuses[len(p.statuses)-1]
		if n < len(p.statuses) {
			status = p.statuses[n]
		}
		p.mu.Unlock()

		w.WriteHeader(status)
		if status == http.StatusOK {
			io.WriteString(w, "payload")
		}
	}
}

func (p *retryProbe) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *retryProbe) header(i int) http.Header {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.headers[i]
}

func newTestClient() (*Client, *[]time.Duration) {
	client := NewClient()
	delays := &[]time.Duration{}
	client.SetDelayFunc(func(d time.Duration) {
		*delays = append(*delays, d)
	})
	return client, delays
}

func TestGetSucceedsWithoutRetrying(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, delays := newTestClient()
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "payload" {
		t.Errorf("unexpected body %q", body)
	}
	if probe.count() != 1 {
		t.Errorf("expected 1 request, got %d", probe.count())
	}
	if len(*delays) != 0 {
		t.Errorf("expected no delays, got %v", *delays)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, delays := newTestClient()
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if probe.count() != 3 {
		t.Errorf("expected 3 requests, got %d", probe.count())
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, *delays)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay %d: expected %v, got %v", i, d, (*delays)[i])
		}
	}
}

func TestGetRetriesRateLimiting(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusTooManyRequests, http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, _ := newTestClient()
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if probe.count() != 2 {
		t.Errorf("expected 2 requests, got %d", probe.count())
	}
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusServiceUnavailable}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, delays := newTestClient()
	_, err := client.Get(context.Background(), server.URL, nil)
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("expected ErrMaxRetriesExceeded, got %v", err)
	}

	if probe.count() != 4 {
		t.Errorf("expected 4 requests (1 + 3 retries), got %d", probe.count())
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, *delays)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay %d: expected %v, got %v", i, d, (*delays)[i])
		}
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusNotFound}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, delays := newTestClient()
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("a 404 is an answer, not a retryable failure: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
	if probe.count() != 1 {
		t.Errorf("expected 1 request, got %d", probe.count())
	}
	if len(*delays) != 0 {
		t.Errorf("expected no delays, got %v", *delays)
	}
}

func TestGetHonorsCanceledContext(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, _ := newTestClient()
	if _, err := client.Get(ctx, server.URL, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if probe.count() != 0 {
		t.Errorf("expected no requests, got %d", probe.count())
	}
}

func TestGetSubstitutesHeaderEnvVars(t *testing.T) {
	t.Setenv("WATCH_TEST_TOKEN", "s3cret")

	probe := &retryProbe{statuses: []int{http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, _ := newTestClient()
	resp, err := client.Get(context.Background(), server.URL, map[string]string{
		"Authorization": "token ${WATCH_TEST_TOKEN}",
		"Accept":        "application/json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	got := probe.header(0)
	if got.Get("Authorization") != "token s3cret" {
		t.Errorf("expected substituted token, got %q", got.Get("Authorization"))
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("expected literal header to pass through, got %q", got.Get("Accept"))
	}
}

func TestGetKeepsGitHubTokenOffOtherHosts(t *testing.T) {
	probe := &retryProbe{statuses: []int{http.StatusOK}}
	server := httptest.NewServer(probe.handler())
	defer server.Close()

	client, _ := newTestClient()
	client.SetGitHubToken("gh-token")
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if auth := probe.header(0).Get("Authorization"); auth != "" {
		t.Errorf("token must only reach api.github.com, got %q", auth)
	}
}

func TestIsGitHubAPIURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://api.github.com/repos/pytoolz/toolz/releases/latest", true},
		{"http://api.github.com/repos/pytoolz/toolz", true},
		{"https://pypi.org/pypi/toolz/json", false},
		{"https://api.github.com.evil.example/steal", false},
		{"https://github.com/pytoolz/toolz", false},
	}

	for _, tt := range tests {
		if got := isGitHubAPIURL(tt.url); got != tt.want {
			t.Errorf("isGitHubAPIURL(%q) = %v, expected %v", tt.url, got, tt.want)
		}
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("WATCH_TEST_A", "alpha")
	t.Setenv("WATCH_TEST_B", "beta")

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "no references", value: "application/json", want: "application/json"},
		{name: "single reference", value: "token ${WATCH_TEST_A}", want: "token alpha"},
		{name: "multiple references", value: "${WATCH_TEST_A}:${WATCH_TEST_B}", want: "alpha:beta"},
		{name: "unset reference becomes empty", value: "x${WATCH_TEST_UNSET}y", want: "xy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstituteEnvVars(tt.value); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBackoffIsCapped(t *testing.T) {
	client := NewClientWithConfig(RetryConfig{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   4 * time.Second,
		Timeout:    time.Second,
	})

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second, 4 * time.Second}
	for i, d := range want {
		if got := client.backoff(i + 1); got != d {
			t.Errorf("attempt %d: expected %v, got %v", i+1, d, got)
		}
	}
}
