package ioc

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/pikciu/ioc/internal/container"
	"github.com/pikciu/ioc/internal/lifecycle"
	iocreflect "github.com/pikciu/ioc/internal/reflect"
)

// Factory builds an implementation without help from the container.
// A factory sees no resolution context, so resolving its own contract
// through a captured container is not reported as a cycle: a singleton
// blocks forever and a per-request registration recurses without end.
// Use a Provider when the implementation needs other registrations.
type Factory[T any] func() (T, error)

// Provider builds an implementation and may resolve its own dependencies
// through r. Resolutions must use ctx.
type Provider[T any] func(ctx context.Context, r Resolver) (T, error)

// Register binds contract C to implementation I. I is built by the
// constructor given with WithConstructor, or by zero-argument construction
// when there is none.
//
// Per-request resolutions build a new value each time, but pointers to a
// zero-size type such as struct{} may compare equal.
func Register[C, I any](c *Container, opts ...RegisterOption) error {
	contract, impl := iocreflect.TypeOf[C](), iocreflect.TypeOf[I]()
	cfg, err := registerOptions(contract, impl, opts)
	if err != nil {
		return err
	}

	entry := newEntry(contract, impl, cfg.lifecycle)
	if cfg.constructor != nil {
		err = useConstructor(entry, impl, cfg.constructor)
	} else {
		useZeroValue(entry, impl)
	}
	if err != nil {
		return err
	}

	return c.register(entry)
}

// RegisterSelf registers I as its own contract.
func RegisterSelf[I any](c *Container, opts ...RegisterOption) error {
	return Register[I, I](c, opts...)
}

// RegisterInstance binds contract C to a value built by the caller. The
// value is always returned as is, whatever lifecycle it would otherwise have,
// and Close never closes it.
func RegisterInstance[C, I any](c *Container, value I) error {
	contract, impl := iocreflect.TypeOf[C](), iocreflect.TypeOf[I]()
	if _, err := registerOptions(contract, impl, nil); err != nil {
		return err
	}

	entry := newEntry(contract, impl, lifecycle.Singleton)
	entry.Value = value
	entry.HasValue = true
	return c.register(entry)
}

// RegisterValue registers a caller-built value under its own type.
func RegisterValue[T any](c *Container, value T) error {
	return RegisterInstance[T, T](c, value)
}

func RegisterFactory[C, I any](c *Container, factory Factory[I], opts ...RegisterOption) error {
	contract, impl := iocreflect.TypeOf[C](), iocreflect.TypeOf[I]()
	cfg, err := registerOptions(contract, impl, opts)
	if err != nil {
		return err
	}
	if factory == nil {
		return errInvalidRegistration(iocreflect.KeyOf(contract), "factory must not be nil")
	}

	entry := newEntry(contract, impl, cfg.lifecycle)
	entry.Provider = func(ctx context.Context, r container.Resolver) (any, error) {
		return construct(
			entry.Implementation, func() (any, error) {
				return factory()
			},
		)
	}
	return c.register(entry)
}

func RegisterProvider[C, I any](c *Container, provider Provider[I], opts ...RegisterOption) error {
	contract, impl := iocreflect.TypeOf[C](), iocreflect.TypeOf[I]()
	cfg, err := registerOptions(contract, impl, opts)
	if err != nil {
		return err
	}
	if provider == nil {
		return errInvalidRegistration(iocreflect.KeyOf(contract), "provider must not be nil")
	}

	entry := newEntry(contract, impl, cfg.lifecycle)
	entry.Provider = func(ctx context.Context, _ container.Resolver) (any, error) {
		return construct(
			entry.Implementation, func() (any, error) {
				return provider(ctx, c)
			},
		)
	}
	return c.register(entry)
}

func MustRegister[C, I any](c *Container, opts ...RegisterOption) {
	if err := Register[C, I](c, opts...); err != nil {
		panic(err)
	}
}

func MustRegisterSelf[I any](c *Container, opts ...RegisterOption) {
	if err := RegisterSelf[I](c, opts...); err != nil {
		panic(err)
	}
}

func MustRegisterInstance[C, I any](c *Container, value I) {
	if err := RegisterInstance[C, I](c, value); err != nil {
		panic(err)
	}
}

func MustRegisterValue[T any](c *Container, value T) {
	if err := RegisterValue(c, value); err != nil {
		panic(err)
	}
}

func MustRegisterFactory[C, I any](c *Container, factory Factory[I], opts ...RegisterOption) {
	if err := RegisterFactory[C, I](c, factory, opts...); err != nil {
		panic(err)
	}
}

func MustRegisterProvider[C, I any](c *Container, provider Provider[I], opts ...RegisterOption) {
	if err := RegisterProvider[C, I](c, provider, opts...); err != nil {
		panic(err)
	}
}

func registerOptions(contract, impl reflect.Type, opts []RegisterOption) (*registerConfig, error) {
	if !impl.AssignableTo(contract) {
		return nil, errInvalidRegistration(
			iocreflect.KeyOf(contract),
			fmt.Sprintf("%s does not implement %s", impl, contract),
		)
	}

	cfg := &registerConfig{lifecycle: lifecycle.PerRequest}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.lifecycle.Valid() {
		return nil, errInvalidRegistration(
			iocreflect.KeyOf(contract),
			fmt.Sprintf("unknown lifecycle %d", int(cfg.lifecycle)),
		)
	}
	return cfg, nil
}

func newEntry(contract, impl reflect.Type, l Lifecycle) *container.Entry {
	return &container.Entry{
		Key:            iocreflect.KeyOf(contract),
		Implementation: iocreflect.KeyOf(impl),
		Lifecycle:      l,
	}
}

func (c *Container) register(e *container.Entry) error {
	err := c.internal.Register(e)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, container.ErrSealed):
		return errContainerSealed(e.Key)
	default:
		return translate(err)
	}
}

// construct runs build and reports a failure as a ConstructionError for impl.
// Errors coming from resolving dependencies are passed on unchanged.
func construct(impl string, build func() (any, error)) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance, err = nil, errConstruction(impl, fmt.Errorf("panic: %v", r))
		}
	}()

	instance, err = build()
	if err == nil {
		return instance, nil
	}

	var e *Error
	if errors.As(err, &e) || container.IsResolutionError(err) {
		return nil, err
	}
	return nil, errConstruction(impl, err)
}
