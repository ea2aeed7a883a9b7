// Package ioctest wraps an ioc.Container with helpers that fail the test
// instead of returning errors. Test containers allow overriding so a test can
// swap a production registration for a fake after the real wiring ran.
package ioctest

import (
	"context"

	"github.com/pikciu/ioc"
	"github.com/pikciu/ioc/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContainer struct {
	*ioc.Container
	tb TB
}

// New returns a container that is closed when the test finishes.
func New(tb TB, opts ...ioc.Option) *TestContainer {
	tb.Helper()

	c := ioc.New(append([]ioc.Option{ioc.WithOverride()}, opts...)...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(
		func() {
			if err := c.Close(context.Background()); err != nil {
				tb.Fatalf("failed to close container: %v", err)
			}
		},
	)

	return tc
}

func (tc *TestContainer) RequireWarmup(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Warmup(ctx); err != nil {
		tc.tb.Fatalf("failed to warm up container: %v", err)
	}
}

func (tc *TestContainer) RequireClose(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Close(ctx); err != nil {
		tc.tb.Fatalf("failed to close container: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func (tc *TestContainer) RequireModule(ctx context.Context, id string) {
	tc.tb.Helper()

	if err := tc.RegisterFromModule(ctx, id); err != nil {
		tc.tb.Fatalf("failed to register module %s: %v", id, err)
	}
}

// Replace registers value as the singleton for contract C, overriding any
// existing registration.
func Replace[C any](tc *TestContainer, value C) {
	tc.tb.Helper()

	if err := ioc.RegisterInstance[C, C](tc.Container, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", reflect.TypeKey[C](), err)
	}
}

func ReplaceFactory[C any](tc *TestContainer, factory ioc.Factory[C], opts ...ioc.RegisterOption) {
	tc.tb.Helper()

	if err := ioc.RegisterFactory[C, C](tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to replace factory %s: %v", reflect.TypeKey[C](), err)
	}
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !ioc.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKey[T]())
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if ioc.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", reflect.TypeKey[T]())
	}
}

// AssertSingleton fails unless two resolutions of T return the same instance.
func AssertSingleton[T comparable](tc *TestContainer) {
	tc.tb.Helper()

	first, second := MustResolve[T](tc), MustResolve[T](tc)
	if first != second {
		tc.tb.Fatalf("expected %s to resolve to a single instance", reflect.TypeKey[T]())
	}
}

// AssertPerRequest fails unless two resolutions of T return distinct instances.
func AssertPerRequest[T comparable](tc *TestContainer) {
	tc.tb.Helper()

	first, second := MustResolve[T](tc), MustResolve[T](tc)
	if first == second {
		tc.tb.Fatalf("expected %s to resolve to a new instance per request", reflect.TypeKey[T]())
	}
}

func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := ioc.Resolve[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustRegister[C, I any](tc *TestContainer, opts ...ioc.RegisterOption) {
	tc.tb.Helper()

	if err := ioc.Register[C, I](tc.Container, opts...); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", reflect.TypeKey[C](), err)
	}
}

func MustRegisterValue[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	if err := ioc.RegisterValue(tc.Container, value); err != nil {
		tc.tb.Fatalf("failed to register value %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustRegisterProvider[C, I any](tc *TestContainer, provider ioc.Provider[I], opts ...ioc.RegisterOption) {
	tc.tb.Helper()

	if err := ioc.RegisterProvider[C, I](tc.Container, provider, opts...); err != nil {
		tc.tb.Fatalf("failed to register provider %s: %v", reflect.TypeKey[C](), err)
	}
}
