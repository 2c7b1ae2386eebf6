// SPDX-License-Identifier: MPL-2.0

package tmplgraph

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/minipack/minipack/internal/issue"
)

func TestAddEdges_UnknownRootIsViolation(t *testing.T) {
	t.Parallel()

	g := New()
	err := g.AddEdges("/app/pages/a/a.wxml", []string{"/app/tpl/header.wxml"})
	if !errors.Is(err, issue.ErrInvariantViolation) {
		t.Fatalf("AddEdges() error = %v, want ErrInvariantViolation", err)
	}
	if g.Len() != 0 {
		t.Errorf("failed AddEdges created %d node(s)", g.Len())
	}
}

func TestAddEdges_DuplicateEdgeCollapses(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/pages/a/a.wxml")
	for range 2 {
		if err := g.AddEdges("/app/pages/a/a.wxml", []string{"/app/tpl/header.wxml"}); err != nil {
			t.Fatal(err)
		}
	}

	if deps := g.Deps("/app/pages/a/a.wxml"); !slices.Equal(deps, []string{"/app/tpl/header.wxml"}) {
		t.Errorf("Deps() = %v, want exactly one edge", deps)
	}
}

func TestAddEdges_MarksLoadedAndReusesNodes(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/pages/a/a.wxml")
	g.AddRoot("/app/pages/b/b.wxml")

	if n, _ := g.Node("/app/pages/a/a.wxml"); n.Loaded || !n.IsRoot {
		t.Errorf("fresh root = %+v", n)
	}

	shared := "/app/tpl/footer.wxml"
	if err := g.AddEdges("/app/pages/a/a.wxml", []string{shared}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdges("/app/pages/b/b.wxml", []string{shared, "/app/pages/a/a.wxml"}); err != nil {
		t.Fatal(err)
	}

	a, _ := g.Node("/app/pages/a/a.wxml")
	if !a.Loaded {
		t.Error("root should be loaded after AddEdges")
	}
	footer, ok := g.Node(shared)
	if !ok || footer.IsRoot || footer.Loaded {
		t.Errorf("dependency node = %+v, %v", footer, ok)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (shared node reused)", g.Len())
	}
	wantDependents := []string{"/app/pages/a/a.wxml", "/app/pages/b/b.wxml"}
	if got := g.Dependents(shared); !slices.Equal(got, wantDependents) {
		t.Errorf("Dependents() = %v, want %v", got, wantDependents)
	}

	// Edges accumulate across passes; an empty pass removes nothing.
	if err := g.AddEdges("/app/pages/b/b.wxml", nil); err != nil {
		t.Fatal(err)
	}
	if len(g.Deps("/app/pages/b/b.wxml")) != 2 {
		t.Error("edges must never be removed")
	}
}

func TestAddEdges_DependencyCanBecomeRoot(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/a.wxml")
	if err := g.AddEdges("/app/a.wxml", []string{"/app/b.wxml"}); err != nil {
		t.Fatal(err)
	}
	// b was only mentioned; recording edges for it is allowed since it has a node.
	if err := g.AddEdges("/app/b.wxml", []string{"/app/c.wxml"}); err != nil {
		t.Fatalf("AddEdges() on a dependency node error = %v", err)
	}
	g.AddRoot("/app/b.wxml")
	if n, _ := g.Node("/app/b.wxml"); !n.IsRoot || !n.Loaded {
		t.Errorf("node = %+v", n)
	}
}

func TestOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/page.wxml")
	if err := g.AddEdges("/app/page.wxml", []string{"/app/header.wxml", "/app/footer.wxml"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdges("/app/header.wxml", []string{"/app/logo.wxml"}); err != nil {
		t.Fatal(err)
	}

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	want := []string{"/app/footer.wxml", "/app/logo.wxml", "/app/header.wxml", "/app/page.wxml"}
	if !slices.Equal(order, want) {
		t.Errorf("Order() = %v, want %v", order, want)
	}
}

func TestOrder_Empty(t *testing.T) {
	t.Parallel()

	order, err := New().Order()
	if err != nil || order != nil {
		t.Errorf("Order() = %v, %v; want nil, nil", order, err)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/a.wxml")
	if err := g.AddEdges("/app/a.wxml", []string{"/app/b.wxml"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdges("/app/b.wxml", []string{"/app/a.wxml"}); err != nil {
		t.Fatal("recording a cycle must be legal:", err)
	}

	_, err := g.Order()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Order() error = %v, want *CycleError", err)
	}
	if !slices.Equal(cycleErr.Cycle, []string{"/app/a.wxml", "/app/b.wxml"}) {
		t.Errorf("Cycle = %v", cycleErr.Cycle)
	}
}

func TestGraph_ConcurrentAddEdges(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddRoot("/app/root.wxml")
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_ = g.AddEdges("/app/root.wxml", []string{"/app/shared.wxml"})
		})
	}
	wg.Wait()

	if deps := g.Deps("/app/root.wxml"); len(deps) != 1 {
		t.Errorf("Deps() = %v, want one edge", deps)
	}
}
