package container

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pikciu/ioc/internal/lifecycle"
)

type contextCloser interface {
	Close(ctx context.Context) error
}

// Warmup builds every singleton, dependencies first. Registration order is
// used when the declared dependencies contain a cycle so that resolution
// reports it.
func (c *Container) Warmup(ctx context.Context) error {
	c.mu.RLock()
	order, err := c.graph.TopologicalSort()
	if err != nil {
		order = c.registry.Keys()
	}
	var keys []string
	for _, key := range order {
		if e, ok := c.registry.Get(key); ok && e.Lifecycle == lifecycle.Singleton && !e.HasValue {
			keys = append(keys, key)
		}
	}
	c.mu.RUnlock()

	for _, key := range keys {
		c.logger.Debug("warming up", "contract", key)
		if _, err := c.Resolve(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Close releases container-built singletons in reverse creation order.
// Pre-supplied values belong to the caller and are left alone. Calling Close
// again is a no-op.
func (c *Container) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.createdMu.Lock()
	created := c.created
	c.created = nil
	c.createdMu.Unlock()

	var errs []error
	for i := len(created) - 1; i >= 0; i-- {
		e := created[i]
		err := closeInstance(ctx, e.instance)
		if err != nil {
			c.logger.Warn("close failed", "contract", e.Key, "error", err)
			errs = append(errs, fmt.Errorf("closing %s: %w", e.Key, err))
		} else {
			c.logger.Debug("closed", "contract", e.Key)
		}

		for _, hook := range c.onClose {
			hook(e.Key, err)
		}
	}

	return errors.Join(errs...)
}

func closeInstance(ctx context.Context, instance any) error {
	switch v := instance.(type) {
	case contextCloser:
		return v.Close(ctx)
	case io.Closer:
		return v.Close()
	default:
		return nil
	}
}
