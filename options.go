package ioc

import (
	"log/slog"

	"github.com/pikciu/ioc/internal/lifecycle"
)

type Option func(*containerConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithOverride lets a registration replace an existing one for the same
// contract instead of failing with a DuplicateRegistration error.
func WithOverride() Option {
	return func(cfg *containerConfig) {
		cfg.allowOverride = true
	}
}

// WithSealOnResolve seals the container on its first resolution.
func WithSealOnResolve() Option {
	return func(cfg *containerConfig) {
		cfg.sealOnResolve = true
	}
}

// WithModuleLoader sets the loader RegisterFromModule uses.
func WithModuleLoader(loader ModuleLoader) Option {
	return func(cfg *containerConfig) {
		cfg.loader = loader
	}
}

func WithResolveObserver(observer ResolveObserver) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, observer)
	}
}

func WithRegisterObserver(observer RegisterObserver) Option {
	return func(cfg *containerConfig) {
		cfg.onRegister = append(cfg.onRegister, observer)
	}
}

func WithCloseObserver(observer CloseObserver) Option {
	return func(cfg *containerConfig) {
		cfg.onClose = append(cfg.onClose, observer)
	}
}

type RegisterOption func(*registerConfig)

type registerConfig struct {
	lifecycle   Lifecycle
	constructor any
}

func WithLifecycle(l Lifecycle) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.lifecycle = l
	}
}

func AsSingleton() RegisterOption {
	return WithLifecycle(lifecycle.Singleton)
}

// WithConstructor sets the function used to build the implementation. Its
// parameters are resolved from the container, left to right.
func WithConstructor(fn any) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.constructor = fn
	}
}
