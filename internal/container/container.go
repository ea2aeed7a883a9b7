package container

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pikciu/ioc/internal/graph"
)

type (
	ResolveHook  func(key string, duration time.Duration, err error)
	RegisterHook func(key string, replaced bool)
	CloseHook    func(key string, err error)
)

type Config struct {
	Logger        *slog.Logger
	AllowOverride bool
	SealOnResolve bool
	OnResolve     []ResolveHook
	OnRegister    []RegisterHook
	OnClose       []CloseHook
}

type Container struct {
	mu       sync.RWMutex
	registry *Registry
	graph    *graph.Graph
	sealed   bool

	logger        *slog.Logger
	allowOverride bool
	sealOnResolve bool
	closed        atomic.Bool

	createdMu sync.Mutex
	created   []*Entry

	onResolve  []ResolveHook
	onRegister []RegisterHook
	onClose    []CloseHook
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Container{
		registry:      NewRegistry(),
		graph:         graph.New(),
		logger:        logger,
		allowOverride: cfg.AllowOverride,
		sealOnResolve: cfg.SealOnResolve,
		onResolve:     cfg.OnResolve,
		onRegister:    cfg.OnRegister,
		onClose:       cfg.OnClose,
	}
}

// Register adds e to the registry. An existing entry under the same key is
// replaced when overrides are allowed and rejected otherwise.
func (c *Container) Register(e *Entry) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	if c.sealed {
		c.mu.Unlock()
		return ErrSealed
	}

	replaced := c.registry.Has(e.Key)
	if replaced && !c.allowOverride {
		c.mu.Unlock()
		return &DuplicateError{Key: e.Key}
	}

	c.registry.Add(e)
	c.graph.AddNode(e.Key, e.Dependencies)
	c.mu.Unlock()

	if replaced {
		c.logger.Debug("replaced registration", "contract", e.Key, "implementation", e.Implementation)
	} else {
		c.logger.Debug(
			"registered",
			"contract", e.Key,
			"implementation", e.Implementation,
			"lifecycle", e.Lifecycle.String(),
		)
	}

	for _, hook := range c.onRegister {
		hook(e.Key, replaced)
	}
	return nil
}

func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Has(key)
}

func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Keys()
}

func (c *Container) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Size()
}

func (c *Container) Seal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sealed {
		c.sealed = true
		c.logger.Debug("container sealed")
	}
}

func (c *Container) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sealed
}

// Snapshot captures the current set of registrations.
type Snapshot struct {
	registry *Registry
	graph    *graph.Graph
}

func (c *Container) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Snapshot{
		registry: c.registry.clone(),
		graph:    c.graph.Clone(),
	}
}

// Restore puts back the registrations captured by s. Singletons resolved in
// the meantime for entries that survive keep their cached instance.
func (c *Container) Restore(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry = s.registry.clone()
	c.graph = s.graph.Clone()
}

func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	missing := c.graph.Missing()
	cycles := c.graph.CyclePaths()
	if len(missing) == 0 && len(cycles) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing, Cycles: cycles}
}

type EntryInfo struct {
	Key            string
	Implementation string
	Lifecycle      string
	Dependencies   []string
	Dependents     []string
	Instantiated   bool
	PreSupplied    bool
	Instance       any
}

// Entries describes every registration in registration order.
func (c *Container) Entries() []EntryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.registry.Entries()
	infos := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		instance, ok := e.cached()
		infos = append(
			infos, EntryInfo{
				Key:            e.Key,
				Implementation: e.Implementation,
				Lifecycle:      e.Lifecycle.String(),
				Dependencies:   c.graph.Dependencies(e.Key),
				Dependents:     c.graph.Dependents(e.Key),
				Instantiated:   ok,
				PreSupplied:    e.HasValue,
				Instance:       instance,
			},
		)
	}
	return infos
}

func (c *Container) lookup(key string) (*Entry, bool) {
	c.mu.RLock()
	e, ok := c.registry.Get(key)
	seal := c.sealOnResolve && !c.sealed
	c.mu.RUnlock()

	if seal {
		c.Seal()
	}
	return e, ok
}

func (c *Container) track(e *Entry) {
	c.createdMu.Lock()
	c.created = append(c.created, e)
	c.createdMu.Unlock()
}
