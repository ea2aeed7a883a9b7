package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"plugin"
	"reflect"
	"slices"
	"strings"
)

// ExportsSymbol is the package-level variable a plugin module declares to
// list its exports:
//
//	var Exports = []any{(*Installer)(nil)}
const ExportsSymbol = "Exports"

const pluginExt = ".so"

// PluginLoader loads modules built with -buildmode=plugin from a directory.
// Module id is read from <dir>/<id>.so.
type PluginLoader struct {
	dir  string
	open func(path string) (lookup func(string) (plugin.Symbol, error), err error)
}

func NewPluginLoader(dir string) *PluginLoader {
	return &PluginLoader{
		dir:  dir,
		open: openPlugin,
	}
}

func openPlugin(path string) (func(string) (plugin.Symbol, error), error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p.Lookup, nil
}

func (l *PluginLoader) Dir() string {
	return l.dir
}

func (l *PluginLoader) Load(ctx context.Context, id string) ([]reflect.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: invalid module id %q", ErrNotFound, id)
	}

	path := filepath.Join(l.dir, id+pluginExt)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking plugin %s: %w", path, err)
	}

	lookup, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin %s: %w", path, err)
	}

	sym, err := lookup(ExportsSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoExports, path, err)
	}

	exports, ok := sym.(*[]any)
	if !ok || exports == nil {
		return nil, fmt.Errorf("%w: %s: %s has type %T, want []any", ErrNoExports, path, ExportsSymbol, sym)
	}

	types, err := typesOf(*exports)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", path, err)
	}
	return types, nil
}

// Discover lists the module ids available in the directory, sorted.
func (l *PluginLoader) Discover(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin directory %s: %w", l.dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != pluginExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), pluginExt))
	}
	slices.Sort(ids)
	return ids, nil
}
