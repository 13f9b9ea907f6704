// Package source supplies sentences to type from interchangeable providers.
//
// Every provider exposes the same single operation: produce one sentence or
// fail with a reason. The Pool selects among registered providers at random
// and never distinguishes their kinds.
package source

import (
	"context"
	"errors"
	"fmt"
)

// Provider produces one sentence per call. Implementations may block on
// file or network I/O and should honor ctx cancellation.
type Provider interface {
	Sentence(ctx context.Context) (string, error)
}

var (
	// ErrNoProvider is returned by an empty Pool.
	ErrNoProvider = errors.New("no sentence provider available")
	// ErrNoContent is returned by a provider that has nothing to offer.
	ErrNoContent = errors.New("no content available")
	// ErrAllProvidersFailed is returned when every registered provider failed in turn.
	ErrAllProvidersFailed = errors.New("all sentence providers failed")
)

// FetchError reports a failed Sentence call on a specific provider.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Describe returns a short label for p, used in logs and errors.
func Describe(p Provider) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", p)
}
