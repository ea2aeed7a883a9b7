package container

import (
	"context"
	"slices"
	"time"

	"github.com/pikciu/ioc/internal/lifecycle"
)

type pathKey struct{}

// Path returns the keys currently being built on the call chain of ctx,
// outermost first.
func Path(ctx context.Context) []string {
	path, _ := ctx.Value(pathKey{}).([]string)
	return path
}

func withPath(ctx context.Context, key string) context.Context {
	path := Path(ctx)
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return context.WithValue(ctx, pathKey{}, append(next, key))
}

// Resolve returns the instance registered under key, building it and its
// dependencies as needed.
func (c *Container) Resolve(ctx context.Context, key string) (any, error) {
	start := time.Now()
	instance, err := c.resolve(ctx, key)
	for _, hook := range c.onResolve {
		hook(key, time.Since(start), err)
	}
	return instance, err
}

func (c *Container) resolve(ctx context.Context, key string) (any, error) {
	path := Path(ctx)
	if slices.Contains(path, key) {
		chain := append(slices.Clone(path[slices.Index(path, key):]), key)
		return nil, &CycleError{Chain: chain}
	}

	if c.closed.Load() {
		return nil, ErrClosed
	}

	entry, exists := c.lookup(key)
	if !exists {
		return nil, &NotFoundError{Key: key}
	}

	if instance, ok := entry.cached(); ok {
		return instance, nil
	}

	if entry.Lifecycle != lifecycle.Singleton {
		return c.build(ctx, entry)
	}
	return c.resolveSingleton(ctx, entry)
}

func (c *Container) resolveSingleton(ctx context.Context, entry *Entry) (any, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.built.Load() {
		return entry.instance, nil
	}

	instance, err := c.build(ctx, entry)
	if err != nil {
		return nil, err
	}

	entry.instance = instance
	entry.built.Store(true)
	c.track(entry)

	c.logger.Debug("created singleton", "contract", entry.Key, "implementation", entry.Implementation)
	return instance, nil
}

func (c *Container) build(ctx context.Context, entry *Entry) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CanceledError{Key: entry.Key, Err: err}
	}
	return entry.Provider(withPath(ctx, entry.Key), c)
}
