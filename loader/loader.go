// Package loader provides module loaders for ioc.Container.RegisterFromModule.
//
// A loader maps a module identifier to the types the module exports. Catalog
// keeps that mapping in memory; PluginLoader reads it from Go plugins in a
// directory; First chains several loaders.
package loader

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

var (
	ErrNotFound  = errors.New("module not found")
	ErrDuplicate = errors.New("module already added")
	ErrNoExports = errors.New("module has no exports")
)

// Loader has the method set of ioc.ModuleLoader.
type Loader interface {
	Load(ctx context.Context, id string) ([]reflect.Type, error)
}

// Catalog is an in-process module registry.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string][]reflect.Type
	ids     []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		modules: make(map[string][]reflect.Type),
	}
}

// Add records the exports of module id. Each export is either a
// reflect.Type or a typed value, such as (*Installer)(nil), whose dynamic
// type is exported.
func (c *Catalog) Add(id string, exports ...any) error {
	types, err := typesOf(exports)
	if err != nil {
		return fmt.Errorf("module %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	c.modules[id] = types
	c.ids = append(c.ids, id)
	return nil
}

func (c *Catalog) MustAdd(id string, exports ...any) *Catalog {
	if err := c.Add(id, exports...); err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Load(ctx context.Context, id string) ([]reflect.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	types, exists := c.modules[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return slices.Clone(types), nil
}

// IDs lists module identifiers in the order they were added.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.ids)
}

func typesOf(exports []any) ([]reflect.Type, error) {
	types := make([]reflect.Type, 0, len(exports))
	for i, export := range exports {
		switch v := export.(type) {
		case nil:
			return nil, fmt.Errorf("export %d is untyped nil", i)
		case reflect.Type:
			types = append(types, v)
		default:
			types = append(types, reflect.TypeOf(v))
		}
	}
	return types, nil
}

type chain []Loader

// First returns a loader that asks each of loaders in turn and answers with
// the first one that knows the module. Errors other than ErrNotFound stop
// the search.
func First(loaders ...Loader) Loader {
	return chain(loaders)
}

func (ch chain) Load(ctx context.Context, id string) ([]reflect.Type, error) {
	for _, l := range ch {
		types, err := l.Load(ctx, id)
		if err == nil {
			return types, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
