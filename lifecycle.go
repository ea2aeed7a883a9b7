package ioc

import (
	"context"

	"github.com/pikciu/ioc/internal/lifecycle"
)

// Lifecycle decides whether a registration is built once or on every
// resolution.
type Lifecycle = lifecycle.Lifecycle

const (
	// PerRequest builds a new instance on every resolution. It is the default.
	PerRequest = lifecycle.PerRequest
	// Singleton builds one instance on first resolution and caches it.
	Singleton = lifecycle.Singleton
)

// ContextCloser is honoured by Close alongside io.Closer.
type ContextCloser interface {
	Close(ctx context.Context) error
}
