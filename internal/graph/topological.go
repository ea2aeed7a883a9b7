package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders nodes so every node follows the nodes it depends
// on. Ties are broken by insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependents := make(map[string][]string, len(g.order))
	inDegree := make(map[string]int, len(g.order))

	for _, id := range g.order {
		inDegree[id] += 0
		for _, dep := range g.edges[id] {
			if _, exists := g.edges[dep]; exists {
				dependents[dep] = append(dependents[dep], id)
				inDegree[id]++
			}
		}
	}

	queue := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, ErrCycleDetected
	}
	return sorted, nil
}
