package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type memoryCache struct {
	mu       sync.Mutex
	articles map[string][]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{articles: map[string][]string{}}
}

func (m *memoryCache) Put(_ context.Context, lang, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[lang] = append(m.articles[lang], text)
	return nil
}

func (m *memoryCache) Random(_ context.Context, lang string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.articles[lang]
	if len(list) == 0 {
		return "", errors.New("empty")
	}
	return list[0], nil
}

func newSummaryServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWikipediaFetch(t *testing.T) {
	var gotPath, gotAgent string
	srv := newSummaryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Zoë","extract":"Zoë is a name.\nIt is \"common\"."}`))
	})
	cache := newMemoryCache()
	wp, err := NewWikipedia([]string{"de"}, WikipediaOptions{
		URLTemplate: srv.URL + "/%s/summary",
		Cache:       cache,
		Logger:      discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewWikipedia: %v", err)
	}
	got, err := wp.Sentence(context.Background())
	if err != nil {
		t.Fatalf("sentence: %v", err)
	}
	if got != `Zoe is a name. It is "common".` {
		t.Fatalf("unexpected sentence %q", got)
	}
	if gotPath != "/de/summary" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if !strings.HasPrefix(gotAgent, "typers/") {
		t.Fatalf("expected typers user agent, got %q", gotAgent)
	}
	if len(cache.articles["de"]) != 1 {
		t.Fatalf("expected fetched article to be cached")
	}
}

func TestWikipediaErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "status", status: http.StatusServiceUnavailable, body: `{}`, wantErr: "received status code 503"},
		{name: "malformed", status: http.StatusOK, body: `{"extract":`, wantErr: "failed to decode summary"},
		{name: "empty extract", status: http.StatusOK, body: `{"title":"x","extract":""}`, wantErr: ErrNoContent.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSummaryServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			wp, err := NewWikipedia([]string{"en"}, WikipediaOptions{URLTemplate: srv.URL + "/%s", Logger: discardLogger()})
			if err != nil {
				t.Fatalf("NewWikipedia: %v", err)
			}
			_, err = wp.Sentence(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWikipediaFallsBackToCache(t *testing.T) {
	srv := newSummaryServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	cache := newMemoryCache()
	_ = cache.Put(context.Background(), "en", "Cached sentence.")
	wp, err := NewWikipedia([]string{"en"}, WikipediaOptions{URLTemplate: srv.URL + "/%s", Cache: cache, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewWikipedia: %v", err)
	}
	got, err := wp.Sentence(context.Background())
	if err != nil {
		t.Fatalf("expected cached fallback, got %v", err)
	}
	if got != "Cached sentence." {
		t.Fatalf("unexpected sentence %q", got)
	}
}

func TestWikipediaEmptyCacheKeepsError(t *testing.T) {
	srv := newSummaryServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wp, err := NewWikipedia([]string{"en"}, WikipediaOptions{URLTemplate: srv.URL + "/%s", Cache: newMemoryCache(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewWikipedia: %v", err)
	}
	_, err = wp.Sentence(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no cached article") {
		t.Fatalf("expected error mentioning cache miss, got %v", err)
	}
}

func TestNewWikipediaValidation(t *testing.T) {
	if _, err := NewWikipedia(nil, WikipediaOptions{}); err == nil {
		t.Fatalf("expected error for no languages")
	}
	if _, err := NewWikipedia([]string{"en"}, WikipediaOptions{URLTemplate: "http://example.com"}); err == nil {
		t.Fatalf("expected error for template without placeholder")
	}
}
