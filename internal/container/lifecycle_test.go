package container

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/pikciu/ioc/internal/lifecycle"
)

type recorder struct {
	closed *[]string
}

type closer struct {
	name string
	rec  recorder
	err  error
}

func (c *closer) Close() error {
	*c.rec.closed = append(*c.rec.closed, c.name)
	return c.err
}

type ctxCloser struct {
	name string
	rec  recorder
}

func (c *ctxCloser) Close(ctx context.Context) error {
	*c.rec.closed = append(*c.rec.closed, c.name)
	return ctx.Err()
}

func TestContainer_Warmup(t *testing.T) {
	t.Parallel()

	c := New(&Config{})

	var built []string
	build := func(name string, deps ...string) ProviderFunc {
		return func(ctx context.Context, r Resolver) (any, error) {
			for _, dep := range deps {
				if _, err := r.Resolve(ctx, dep); err != nil {
					return nil, err
				}
			}
			built = append(built, name)
			return &struct{ name string }{name: name}, nil
		}
	}

	_ = c.Register(provider("handler", lifecycle.Singleton, build("handler", "service"), "service"))
	_ = c.Register(provider("service", lifecycle.Singleton, build("service", "repo"), "repo"))
	_ = c.Register(provider("repo", lifecycle.Singleton, build("repo")))
	_ = c.Register(provider("request", lifecycle.PerRequest, build("request")))

	if err := c.Warmup(context.Background()); err != nil {
		t.Fatalf("Warmup failed: %v", err)
	}

	if !slices.Equal(built, []string{"repo", "service", "handler"}) {
		t.Errorf("expected dependencies first and no per-request builds, got %v", built)
	}
}

func TestContainer_WarmupReportsCycle(t *testing.T) {
	t.Parallel()

	c := New(&Config{})
	_ = c.Register(provider("A", lifecycle.Singleton, dependsOn("B"), "B"))
	_ = c.Register(provider("B", lifecycle.Singleton, dependsOn("A"), "A"))

	var cycle *CycleError
	if err := c.Warmup(context.Background()); !errors.As(err, &cycle) {
		t.Errorf("expected CycleError, got %v", err)
	}
}

func TestContainer_CloseReverseCreationOrder(t *testing.T) {
	t.Parallel()

	var closed []string
	rec := recorder{closed: &closed}

	c := New(&Config{})
	_ = c.Register(value("supplied", &closer{name: "supplied", rec: rec}))
	_ = c.Register(
		provider(
			"db", lifecycle.Singleton, func(ctx context.Context, r Resolver) (any, error) {
				return &closer{name: "db", rec: rec}, nil
			},
		),
	)
	_ = c.Register(
		provider(
			"cache", lifecycle.Singleton, func(ctx context.Context, r Resolver) (any, error) {
				if _, err := r.Resolve(ctx, "db"); err != nil {
					return nil, err
				}
				return &ctxCloser{name: "cache", rec: rec}, nil
			}, "db",
		),
	)
	_ = c.Register(
		provider(
			"transient", lifecycle.PerRequest, func(ctx context.Context, r Resolver) (any, error) {
				return &closer{name: "transient", rec: rec}, nil
			},
		),
	)

	ctx := context.Background()
	_, _ = c.Resolve(ctx, "cache")
	_, _ = c.Resolve(ctx, "transient")
	_, _ = c.Resolve(ctx, "supplied")

	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !slices.Equal(closed, []string{"cache", "db"}) {
		t.Errorf("expected [cache db], got %v", closed)
	}

	if _, err := c.Resolve(ctx, "db"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
	if err := c.Register(value("late", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on register after Close, got %v", err)
	}
	if err := c.Close(ctx); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestContainer_CloseJoinsErrors(t *testing.T) {
	t.Parallel()

	var closed []string
	rec := recorder{closed: &closed}
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	var failures []string
	c := New(
		&Config{
			OnClose: []CloseHook{
				func(key string, err error) {
					if err != nil {
						failures = append(failures, key)
					}
				},
			},
		},
	)
	_ = c.Register(
		provider(
			"a", lifecycle.Singleton, func(ctx context.Context, r Resolver) (any, error) {
				return &closer{name: "a", rec: rec, err: errA}, nil
			},
		),
	)
	_ = c.Register(
		provider(
			"b", lifecycle.Singleton, func(ctx context.Context, r Resolver) (any, error) {
				return &closer{name: "b", rec: rec, err: errB}, nil
			},
		),
	)

	ctx := context.Background()
	_, _ = c.Resolve(ctx, "a")
	_, _ = c.Resolve(ctx, "b")

	err := c.Close(ctx)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both close errors, got %v", err)
	}
	if !slices.Equal(failures, []string{"b", "a"}) {
		t.Errorf("unexpected close hook failures %v", failures)
	}
}
