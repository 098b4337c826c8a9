package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/punchline/config"
)

func newTestNewsClient(baseURL string) *NewsAPIClient {
	return NewNewsAPIClient(config.NewsConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		PageSize: config.DefaultPageSize,
		Timeout:  2 * time.Second,
	}, false)
}

func articleJSON(i int) string {
	return fmt.Sprintf(`{"source":{"id":null,"name":"Source %d"},"title":"Title %d","description":"Desc %d","url":"https://example.com/%d","urlToImage":null,"publishedAt":"2024-12-2%dT10:00:00Z","content":"Content %d"}`, i, i, i, i, i%10, i)
}

func TestFetchHeadlinesSendsExpectedRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("country") != "us" || q.Get("pageSize") != "14" || q.Get("category") != "general" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-Api-Key"))
		}
		if q.Get("apiKey") != "" {
			t.Error("api key must not be sent in the query string")
		}
		fmt.Fprintf(w, `{"status":"ok","totalResults":2,"articles":[%s,%s]}`, articleJSON(1), articleJSON(2))
	}))
	defer srv.Close()

	headlines, err := newTestNewsClient(srv.URL + "/v2").FetchHeadlines(context.Background())
	if err != nil {
		t.Fatalf("FetchHeadlines returned error: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(headlines))
	}
	h := headlines[0]
	if h.Title != "Title 1" || h.SourceName != "Source 1" || h.URL != "https://example.com/1" {
		t.Fatalf("unexpected headline %+v", h)
	}
	if h.ImageURL != "" {
		t.Fatalf("expected empty image url for null, got %q", h.ImageURL)
	}
}

func TestFetchHeadlinesCapsAtPageSize(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			parts = append(parts, articleJSON(i))
		}
		fmt.Fprintf(w, `{"status":"ok","totalResults":20,"articles":[%s]}`, strings.Join(parts, ","))
	}))
	defer srv.Close()

	headlines, err := newTestNewsClient(srv.URL).FetchHeadlines(context.Background())
	if err != nil {
		t.Fatalf("FetchHeadlines returned error: %v", err)
	}
	if len(headlines) != config.DefaultPageSize {
		t.Fatalf("expected %d headlines, got %d", config.DefaultPageSize, len(headlines))
	}
	for i, h := range headlines {
		if h.URL == "" {
			t.Fatalf("headline %d has empty url", i)
		}
	}
}

func TestFetchHeadlinesMissingAPIKeyMakesNoRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := newTestNewsClient(srv.URL)
	client.APIKey = ""

	_, err := client.FetchHeadlines(context.Background())
	if KindOf(err) != KindMissingAPIKey {
		t.Fatalf("expected missing_api_key, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no network call, got %d", hits.Load())
	}
}

func TestFetchHeadlinesClassifiesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`, KindUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{"status":"error","code":"rateLimited","message":"slow down"}`, KindRateLimited},
		{"server error", http.StatusBadGateway, `oops`, KindServerError},
		{"bad request", http.StatusBadRequest, `{"status":"error","code":"parameterInvalid","message":"bad"}`, KindNetworkError},
		{"error status on 200", http.StatusOK, `{"status":"error","code":"x","message":"nope"}`, KindInvalidResponse},
		{"missing articles", http.StatusOK, `{"status":"ok","totalResults":0}`, KindInvalidResponse},
		{"empty articles", http.StatusOK, `{"status":"ok","totalResults":0,"articles":[]}`, KindInvalidResponse},
		{"malformed json", http.StatusOK, `{"status":`, KindInvalidResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			headlines, err := newTestNewsClient(srv.URL).FetchHeadlines(context.Background())
			if err == nil {
				t.Fatalf("expected error, got %d headlines", len(headlines))
			}
			if got := KindOf(err); got != tt.want {
				t.Fatalf("expected kind %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestFetchHeadlinesKeepsProviderMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`)
	}))
	defer srv.Close()

	_, err := newTestNewsClient(srv.URL).FetchHeadlines(context.Background())
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if ce.Code != "apiKeyInvalid" || ce.Message != "Your API key is invalid" || ce.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected error fields %+v", ce)
	}
}

func TestFetchHeadlinesTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := newTestNewsClient(srv.URL)
	client.Client.Timeout = 50 * time.Millisecond

	_, err := client.FetchHeadlines(context.Background())
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestFetchHeadlinesNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newTestNewsClient(baseURL).FetchHeadlines(context.Background())
	if KindOf(err) != KindNetworkError {
		t.Fatalf("expected network_error, got %v", err)
	}
}

func TestFetchHeadlinesMockModeUsesFixtures(t *testing.T) {
	t.Parallel()

	client := NewNewsAPIClient(config.NewsConfig{
		BaseURL:  "http://127.0.0.1:1",
		PageSize: config.DefaultPageSize,
	}, true)

	headlines, err := client.FetchHeadlines(context.Background())
	if err != nil {
		t.Fatalf("mock fetch returned error: %v", err)
	}
	if len(headlines) != 10 {
		t.Fatalf("expected 10 fixture headlines, got %d", len(headlines))
	}
	if headlines[0].Title != "Tech Giant Announces Revolutionary AI Assistant" {
		t.Fatalf("unexpected first fixture %q", headlines[0].Title)
	}
	for _, h := range headlines {
		if h.URL == "" || h.SourceName == "" {
			t.Fatalf("fixture headline incomplete: %+v", h)
		}
		if _, err := h.PublicationDate(); err != nil {
			t.Fatalf("fixture has bad timestamp: %v", err)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"Fish &amp; chips", "Fish & chips"},
		{"The story continues here… [+2817 chars]", "The story continues here…"},
		{"  spaced\n\nout  ", "spaced out"},
	}

	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
