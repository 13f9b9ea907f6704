package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Sentence(context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubProvider) String() string {
	return s.name
}

type blockingProvider struct{}

func (blockingProvider) Sentence(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPool(timeout time.Duration) *Pool {
	p := NewPool(discardLogger(), timeout)
	p.rnd = rand.New(rand.NewSource(1))
	return p
}

func TestNextEmptyPool(t *testing.T) {
	p := newTestPool(0)
	if _, err := p.Next(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider from Acquire, got %v", err)
	}
}

func TestNextPropagatesFailure(t *testing.T) {
	cause := errors.New("boom")
	p := newTestPool(0)
	p.Register(&stubProvider{name: "bad", err: cause})
	_, err := p.Next(context.Background())
	if err != cause {
		t.Fatalf("expected provider error unchanged, got %v", err)
	}
}

func TestNextSelectsUniformly(t *testing.T) {
	p := newTestPool(0)
	providers := []*stubProvider{
		{name: "a", text: "a"},
		{name: "b", text: "b"},
		{name: "c", text: "c"},
	}
	for _, pr := range providers {
		p.Register(pr)
	}
	const draws = 3000
	for i := 0; i < draws; i++ {
		if _, err := p.Next(context.Background()); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	for _, pr := range providers {
		if pr.calls < draws/3-200 || pr.calls > draws/3+200 {
			t.Fatalf("provider %s selected %d times out of %d", pr.name, pr.calls, draws)
		}
	}
}

func TestAcquireFallsBack(t *testing.T) {
	p := newTestPool(0)
	bad := &stubProvider{name: "bad", err: errors.New("offline")}
	good := &stubProvider{name: "good", text: "hello."}
	p.Register(bad)
	p.Register(good)
	for i := 0; i < 20; i++ {
		text, err := p.Acquire(context.Background())
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if text != "hello." {
			t.Fatalf("unexpected text %q", text)
		}
	}
	if bad.calls == 0 {
		t.Fatalf("expected failing provider to be tried at least once")
	}
}

func TestAcquireAllFail(t *testing.T) {
	p := newTestPool(0)
	first := errors.New("first")
	second := errors.New("second")
	p.Register(&stubProvider{name: "one", err: first})
	p.Register(&stubProvider{name: "two", err: second})
	_, err := p.Acquire(context.Background())
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both causes to be joined, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || (fe.Provider != "one" && fe.Provider != "two") {
		t.Fatalf("expected FetchError naming a provider, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	p := newTestPool(20 * time.Millisecond)
	p.Register(blockingProvider{})
	start := time.Now()
	_, err := p.Next(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("fetch timeout was not applied")
	}
}

func TestAcquireStopsOnCanceledContext(t *testing.T) {
	p := newTestPool(0)
	pr := &stubProvider{name: "a", text: "a"}
	p.Register(pr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if pr.calls != 0 {
		t.Fatalf("provider should not be called with a canceled context")
	}
}
