package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// DefaultWikipediaURL is the random-summary endpoint; %s is the language code.
const DefaultWikipediaURL = "https://%s.wikipedia.org/api/rest_v1/page/random/summary"

const (
	defaultWikipediaTimeout = 10 * time.Second
	userAgent               = "typers/1.0 (terminal typing trainer)"
	maxSummaryBytes         = 1 << 20
)

// ArticleCache stores fetched extracts so they can be served when the network fails.
type ArticleCache interface {
	Put(ctx context.Context, lang, text string) error
	Random(ctx context.Context, lang string) (string, error)
}

// WikipediaOptions configures a Wikipedia provider. Zero values select defaults.
type WikipediaOptions struct {
	URLTemplate string
	Timeout     time.Duration
	Client      *http.Client
	Cache       ArticleCache
	Logger      *slog.Logger
}

// Wikipedia serves the extract of a random Wikipedia article.
type Wikipedia struct {
	urlTemplate string
	languages   []string
	client      *http.Client
	cache       ArticleCache
	logger      *slog.Logger
	rnd         *rand.Rand
}

type summaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// NewWikipedia returns a provider that picks one of languages per request.
func NewWikipedia(languages []string, opts WikipediaOptions) (*Wikipedia, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("wikipedia source needs at least one language")
	}
	if opts.URLTemplate == "" {
		opts.URLTemplate = DefaultWikipediaURL
	}
	if !strings.Contains(opts.URLTemplate, "%s") {
		return nil, fmt.Errorf("wikipedia URL template %q has no %%s placeholder", opts.URLTemplate)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultWikipediaTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Wikipedia{
		urlTemplate: opts.URLTemplate,
		languages:   append([]string(nil), languages...),
		client:      opts.Client,
		cache:       opts.Cache,
		logger:      opts.Logger,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Sentence implements Provider. On a failed fetch it falls back to a cached
// extract for the same language when a cache is configured.
func (w *Wikipedia) Sentence(ctx context.Context) (string, error) {
	lang := w.languages[w.rnd.Intn(len(w.languages))]
	text, err := w.fetch(ctx, lang)
	if err == nil {
		if w.cache != nil {
			if perr := w.cache.Put(ctx, lang, text); perr != nil {
				w.logger.Warn("failed to cache article", "lang", lang, "err", perr)
			}
		}
		return text, nil
	}
	if w.cache == nil || errors.Is(err, context.Canceled) {
		return "", err
	}
	cached, cerr := w.cache.Random(context.WithoutCancel(ctx), lang)
	if cerr != nil {
		return "", fmt.Errorf("%w (no cached article: %v)", err, cerr)
	}
	w.logger.Warn("wikipedia unavailable, using cached article", "lang", lang, "err", err)
	return cached, nil
}

func (w *Wikipedia) String() string {
	return "wikipedia [" + strings.Join(w.languages, ",") + "]"
}

func (w *Wikipedia) fetch(ctx context.Context, lang string) (string, error) {
	url := fmt.Sprintf(w.urlTemplate, lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error occurred while sending request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received status code %d instead of %d", resp.StatusCode, http.StatusOK)
	}

	var payload summaryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSummaryBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	text := ToASCII(payload.Extract)
	if text == "" {
		return "", fmt.Errorf("article %q has no usable extract: %w", payload.Title, ErrNoContent)
	}
	return text, nil
}
