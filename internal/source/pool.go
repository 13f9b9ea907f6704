package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Pool holds registered providers and selects one uniformly at random per request.
// It is not safe for concurrent use; the session issues one request at a time.
type Pool struct {
	providers    []Provider
	rnd          *rand.Rand
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewPool returns an empty pool. A positive fetchTimeout bounds every
// Sentence call made through the pool.
func NewPool(logger *slog.Logger, fetchTimeout time.Duration) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Register appends a provider. Duplicates are not detected here.
func (p *Pool) Register(pr Provider) {
	p.providers = append(p.providers, pr)
	p.logger.Debug("registered sentence provider", "provider", Describe(pr))
}

// Len returns the number of registered providers.
func (p *Pool) Len() int {
	return len(p.providers)
}

// Next asks one randomly selected provider for a sentence and returns its
// result unchanged, either the sentence or the provider's own error.
func (p *Pool) Next(ctx context.Context) (string, error) {
	if len(p.providers) == 0 {
		return "", ErrNoProvider
	}
	return p.produce(ctx, p.providers[p.rnd.Intn(len(p.providers))])
}

// Acquire tries providers in random order until one succeeds. Each failure is
// logged as a warning; the error is returned only when all of them fail.
func (p *Pool) Acquire(ctx context.Context) (string, error) {
	if len(p.providers) == 0 {
		return "", ErrNoProvider
	}
	order := p.rnd.Perm(len(p.providers))
	errs := make([]error, 0, len(order))
	for i, idx := range order {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := p.produce(ctx, p.providers[idx])
		if err == nil {
			return text, nil
		}
		errs = append(errs, &FetchError{Provider: Describe(p.providers[idx]), Err: err})
		if i < len(order)-1 {
			p.logger.Warn("sentence provider failed, trying another", "provider", Describe(p.providers[idx]), "err", err)
		} else {
			p.logger.Warn("sentence provider failed", "provider", Describe(p.providers[idx]), "err", err)
		}
	}
	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

func (p *Pool) produce(ctx context.Context, pr Provider) (string, error) {
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}
	return pr.Sentence(ctx)
}
