package container

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pikciu/ioc/internal/lifecycle"
)

type ProviderFunc func(ctx context.Context, r Resolver) (any, error)

type Resolver interface {
	Resolve(ctx context.Context, key string) (any, error)
	Has(key string) bool
}

// Entry is one registration. Exactly one of Value (with HasValue) or Provider
// produces the instance.
type Entry struct {
	Key            string
	Implementation string
	Lifecycle      lifecycle.Lifecycle
	Provider       ProviderFunc
	Dependencies   []string
	Value          any
	HasValue       bool

	mu       sync.Mutex
	built    atomic.Bool
	instance any
}

func (e *Entry) cached() (any, bool) {
	if e.HasValue {
		return e.Value, true
	}
	if e.built.Load() {
		return e.instance, true
	}
	return nil, false
}

// Registry keeps entries in registration order. It is not safe for
// concurrent use; Container guards it.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

func (r *Registry) Add(e *Entry) {
	if _, exists := r.entries[e.Key]; exists {
		r.Remove(e.Key)
	}
	r.entries[e.Key] = e
	r.order = append(r.order, e.Key)
}

func (r *Registry) Remove(key string) {
	if _, exists := r.entries[key]; !exists {
		return
	}
	delete(r.entries, key)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })
}

func (r *Registry) Get(key string) (*Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

func (r *Registry) Has(key string) bool {
	_, ok := r.entries[key]
	return ok
}

func (r *Registry) Keys() []string {
	return slices.Clone(r.order)
}

func (r *Registry) Size() int {
	return len(r.order)
}

func (r *Registry) Entries() []*Entry {
	entries := make([]*Entry, 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, r.entries[key])
	}
	return entries
}

func (r *Registry) clone() *Registry {
	return &Registry{
		entries: maps.Clone(r.entries),
		order:   slices.Clone(r.order),
	}
}
