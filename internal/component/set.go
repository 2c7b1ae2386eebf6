// SPDX-License-Identifier: MPL-2.0

package component

import (
	"slices"
	"sync"
)

// Set is the global set of resolved component modules, keyed by absolute
// path. It only grows. The zero value is ready to use.
type Set struct {
	mu    sync.Mutex
	items map[string]struct{}
	order []string
}

// Insert adds path and reports whether it was new. The test and the insert
// happen under one lock.
func (s *Set) Insert(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items == nil {
		s.items = make(map[string]struct{})
	}
	if _, ok := s.items[path]; ok {
		return false
	}
	s.items[path] = struct{}{}
	s.order = append(s.order, path)
	return true
}

// Has reports whether path is in the set.
func (s *Set) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[path]
	return ok
}

// Len returns the number of components.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// List returns every component in insertion order.
func (s *Set) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}
