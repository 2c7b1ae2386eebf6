// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"

	"github.com/minipack/minipack/internal/format"

	"golang.org/x/sync/errgroup"
)

// GraphResolver expands component closures over a shared Set.
type GraphResolver struct {
	files FileListResolver
	set   *Set
	limit int
}

// NewGraphResolver returns a GraphResolver. limit caps the number of
// closures Closures runs at once; zero or less means no cap.
func NewGraphResolver(files FileListResolver, set *Set, limit int) *GraphResolver {
	if set == nil {
		set = &Set{}
	}
	return &GraphResolver{files: files, set: set, limit: limit}
}

// Set returns the shared component set.
func (g *GraphResolver) Set() *Set {
	return g.set
}

// Closure returns every component file reachable from the JSON files in
// seeds. Non-JSON seeds are ignored. On error the files collected so far
// are returned alongside it.
func (g *GraphResolver) Closure(ctx context.Context, seeds []string) ([]string, error) {
	var frontier []string
	for _, f := range seeds {
		if format.IsConfig(f) {
			frontier = append(frontier, f)
		}
	}

	var collected []string
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return collected, err
		}

		jsonPath := frontier[0]
		frontier = frontier[1:]

		files, err := g.files.Resolve(ctx, jsonPath, g.set)
		collected = append(collected, files...)
		if err != nil {
			return collected, err
		}
		for _, f := range files {
			if format.IsConfig(f) {
				frontier = append(frontier, f)
			}
		}
	}
	return collected, nil
}

// Closures runs one Closure per group concurrently. results[i] belongs to
// groups[i]. A failing closure does not stop the others; the first error is
// returned once all have finished.
func (g *GraphResolver) Closures(ctx context.Context, groups [][]string) ([][]string, error) {
	results := make([][]string, len(groups))

	var eg errgroup.Group
	if g.limit > 0 {
		eg.SetLimit(g.limit)
	}
	for i, group := range groups {
		eg.Go(func() error {
			files, err := g.Closure(ctx, group)
			results[i] = files
			return err
		})
	}
	err := eg.Wait()
	return results, err
}
