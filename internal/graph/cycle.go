package graph

import "slices"

type tarjan struct {
	g       *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// Cycles returns every strongly connected component that forms a cycle,
// including single nodes that depend on themselves.
func (g *Graph) Cycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.cycles()
}

func (g *Graph) cycles() [][]string {
	t := &tarjan{
		g:       g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, id := range g.order {
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		if len(scc) > 1 || slices.Contains(g.edges[scc[0]], scc[0]) {
			cycles = append(cycles, scc)
		}
	}
	return cycles
}

func (t *tarjan) strongConnect(id string) {
	t.indices[id] = t.index
	t.lowlink[id] = t.index
	t.index++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	for _, dep := range t.g.edges[id] {
		if _, exists := t.g.edges[dep]; !exists {
			continue
		}

		if _, visited := t.indices[dep]; !visited {
			t.strongConnect(dep)
			t.lowlink[id] = min(t.lowlink[id], t.lowlink[dep])
		} else if t.onStack[dep] {
			t.lowlink[id] = min(t.lowlink[id], t.indices[dep])
		}
	}

	if t.lowlink[id] != t.indices[id] {
		return
	}

	var scc []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == id {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

// cyclePath returns the first cycle reachable from start as a closed path
// (first and last element equal), or nil.
func (g *Graph) cyclePath(start string) []string {
	visited := make(map[string]bool)
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if i := slices.Index(path, id); i >= 0 {
			return append(slices.Clone(path[i:]), id)
		}
		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)

		for _, dep := range g.edges[id] {
			if _, exists := g.edges[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		return nil
	}

	return dfs(start)
}

func (g *Graph) CyclePaths() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var paths [][]string
	for _, scc := range g.cycles() {
		if path := g.cyclePath(scc[len(scc)-1]); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}
