// SPDX-License-Identifier: MPL-2.0

package tmplgraph

import (
	"fmt"
	"strings"
)

// CycleError indicates that templates include each other, so no
// dependency-first order exists. Recording such edges is legal.
type CycleError struct {
	// Cycle contains the templates left unordered (enough to identify the problem).
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("template inclusion cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Order returns every template so that each appears after the templates it
// includes, using Kahn's algorithm. Templates at the same level keep node
// creation order. Returns *CycleError if inclusions form a cycle.
func (g *Graph) Order() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.order) == 0 {
		return nil, nil
	}

	// An edge dep -> includer means dep must come first.
	inDegree := make(map[string]int, len(g.order))
	includers := make(map[string][]string, len(g.order))
	for _, p := range g.order {
		n := g.nodes[p]
		inDegree[p] += len(n.deps)
		for _, dep := range n.deps {
			includers[dep] = append(includers[dep], p)
		}
	}

	queue := make([]string, 0)
	for _, p := range g.order {
		if inDegree[p] == 0 {
			queue = append(queue, p)
		}
	}

	var result []string
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		result = append(result, p)

		for _, includer := range includers[p] {
			inDegree[includer]--
			if inDegree[includer] == 0 {
				queue = append(queue, includer)
			}
		}
	}

	if len(result) != len(g.order) {
		var cycle []string
		for _, p := range g.order {
			if inDegree[p] > 0 {
				cycle = append(cycle, p)
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}
	return result, nil
}
