package ioc

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pikciu/ioc/internal/container"
	iocreflect "github.com/pikciu/ioc/internal/reflect"
)

// useConstructor makes entry build impl by calling fn with its parameters
// resolved from the container.
func useConstructor(entry *container.Entry, impl reflect.Type, fn any) error {
	ctor, err := iocreflect.Inspect(fn)
	if err != nil {
		return newError(ErrCodeInvalidRegistration, "invalid constructor", err).WithType(entry.Key)
	}
	if !ctor.Result.AssignableTo(impl) {
		return errInvalidRegistration(
			entry.Key,
			fmt.Sprintf("constructor returns %s, which is not assignable to %s", ctor.Result, impl),
		)
	}

	deps := make([]string, len(ctor.Params))
	for i, p := range ctor.Params {
		deps[i] = iocreflect.KeyOf(p)
	}
	entry.Dependencies = deps

	entry.Provider = func(ctx context.Context, r container.Resolver) (any, error) {
		args := make([]reflect.Value, len(deps))
		for i, dep := range deps {
			instance, err := r.Resolve(ctx, dep)
			if err != nil {
				return nil, err
			}
			args[i] = iocreflect.ValueFor(instance, ctor.Params[i])
		}

		return construct(
			entry.Implementation, func() (any, error) {
				return ctor.Call(args)
			},
		)
	}
	return nil
}

// useZeroValue makes entry build impl without arguments. Interface
// implementations cannot be built this way and fail on resolution.
func useZeroValue(entry *container.Entry, impl reflect.Type) {
	entry.Provider = func(ctx context.Context, r container.Resolver) (any, error) {
		return construct(
			entry.Implementation, func() (any, error) {
				return iocreflect.Instantiate(impl)
			},
		)
	}
}
