package ioc

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/pikciu/ioc/internal/container"
	iocreflect "github.com/pikciu/ioc/internal/reflect"
)

// Container maps contract types to registrations and builds instances on
// request. It is safe for concurrent use.
type Container struct {
	id       string
	internal *container.Container
	config   *containerConfig
	logger   *slog.Logger
}

type containerConfig struct {
	logger        *slog.Logger
	allowOverride bool
	sealOnResolve bool
	loader        ModuleLoader
	onResolve     []ResolveObserver
	onRegister    []RegisterObserver
	onClose       []CloseObserver
}

// New creates an empty container.
func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	id := uuid.NewString()
	logger := cfg.logger.With("container", id)

	c := &Container{
		id:     id,
		config: cfg,
		logger: logger,
	}

	c.internal = container.New(
		&container.Config{
			Logger:        logger,
			AllowOverride: cfg.allowOverride,
			SealOnResolve: cfg.sealOnResolve,
			OnResolve:     resolveHooks(cfg.onResolve),
			OnRegister:    registerHooks(cfg.onRegister),
			OnClose:       closeHooks(cfg.onClose),
		},
	)

	return c
}

func resolveHooks(observers []ResolveObserver) []container.ResolveHook {
	hooks := make([]container.ResolveHook, 0, len(observers))
	for _, o := range observers {
		hooks = append(
			hooks, func(key string, d time.Duration, err error) {
				o(key, d, translate(err))
			},
		)
	}
	return hooks
}

func registerHooks(observers []RegisterObserver) []container.RegisterHook {
	hooks := make([]container.RegisterHook, 0, len(observers))
	for _, o := range observers {
		hooks = append(hooks, container.RegisterHook(o))
	}
	return hooks
}

func closeHooks(observers []CloseObserver) []container.CloseHook {
	hooks := make([]container.CloseHook, 0, len(observers))
	for _, o := range observers {
		hooks = append(hooks, container.CloseHook(o))
	}
	return hooks
}

// ID identifies the container in logs.
func (c *Container) ID() string {
	return c.id
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Resolve returns an instance of the contract type t.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	return c.ResolveContext(context.Background(), t)
}

// ResolveContext is Resolve with a context. Resolutions made from inside a
// provider must pass on the context the provider received so that circular
// dependencies are detected.
func (c *Container) ResolveContext(ctx context.Context, t reflect.Type) (any, error) {
	instance, err := c.internal.Resolve(ctx, iocreflect.KeyOf(t))
	if err != nil {
		return nil, translate(err)
	}
	return instance, nil
}

func (c *Container) Has(t reflect.Type) bool {
	return c.internal.Has(iocreflect.KeyOf(t))
}

// Validate checks declared constructor dependencies without building
// anything: every dependency must be registered and none may be circular.
func (c *Container) Validate() error {
	if err := c.internal.Validate(); err != nil {
		return errValidationFailed(err)
	}
	return nil
}

// Warmup builds every singleton up front, dependencies first.
func (c *Container) Warmup(ctx context.Context) error {
	return translate(c.internal.Warmup(ctx))
}

// Seal stops the container from accepting further registrations.
func (c *Container) Seal() {
	c.internal.Seal()
}

func (c *Container) Sealed() bool {
	return c.internal.Sealed()
}

// Close releases the singletons the container built, newest first, and
// rejects any later resolution. Values handed to the container by the
// caller are not closed.
func (c *Container) Close(ctx context.Context) error {
	return c.internal.Close(ctx)
}

func (c *Container) Size() int {
	return c.internal.Size()
}

// Keys lists the registered contract keys in registration order.
func (c *Container) Keys() []string {
	return c.internal.Keys()
}
