package ioc

import (
	"context"
	"fmt"
	"reflect"

	iocreflect "github.com/pikciu/ioc/internal/reflect"
)

// Resolver is the read side of a container. *Container implements it.
type Resolver interface {
	ResolveContext(ctx context.Context, t reflect.Type) (any, error)
	Has(t reflect.Type) bool
}

func Resolve[T any](r Resolver) (T, error) {
	return ResolveCtx[T](context.Background(), r)
}

func ResolveCtx[T any](ctx context.Context, r Resolver) (T, error) {
	var zero T

	instance, err := r.ResolveContext(ctx, iocreflect.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		name := iocreflect.TypeName[T]()
		return zero, errResolutionFailed(name, fmt.Errorf("got %T", instance))
	}

	return typed, nil
}

func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

func MustResolveCtx[T any](ctx context.Context, r Resolver) T {
	v, err := ResolveCtx[T](ctx, r)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	return v, err == nil
}

func Has[T any](r Resolver) bool {
	return r.Has(iocreflect.TypeOf[T]())
}
