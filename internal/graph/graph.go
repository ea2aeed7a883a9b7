package graph

import (
	"slices"
	"sync"
)

// Graph records, for every registered contract key, the contract keys its
// constructor declares as parameters. Node order follows insertion order.
type Graph struct {
	mu    sync.RWMutex
	order []string
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.edges[id]; !exists {
		g.order = append(g.order, id)
	}
	g.edges[id] = slices.Clone(dependencies)
}

func (g *Graph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return slices.Clone(g.edges[id])
}

func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, node := range g.order {
		if slices.Contains(g.edges[node], id) {
			dependents = append(dependents, node)
		}
	}
	return dependents
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	clone.order = slices.Clone(g.order)
	for id, deps := range g.edges {
		clone.edges[id] = slices.Clone(deps)
	}
	return clone
}

// Missing returns dependencies that no node provides, in first-seen order.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, id := range g.order {
		for _, dep := range g.edges[id] {
			if _, exists := g.edges[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	return missing
}
