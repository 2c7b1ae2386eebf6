// SPDX-License-Identifier: MPL-2.0

// Package filetree keeps the entry -> page -> file association built during
// resolution, so a rewritten file can be traced back to its entry.
package filetree

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/disiqueira/gotree/v3"
)

type (
	// Tree is safe for concurrent use. The zero value is not usable; call New.
	Tree struct {
		mu      sync.Mutex
		entries []string
		byEntry map[string]*entryNode
		owner   map[string]string // file or page -> entry
		pageOf  map[string]string // file -> page
	}

	entryNode struct {
		pages []string
		files map[string][]string // page -> files
		own   []string            // entry-level files
	}
)

// New returns an empty Tree.
func New() *Tree {
	return &Tree{
		byEntry: make(map[string]*entryNode),
		owner:   make(map[string]string),
		pageOf:  make(map[string]string),
	}
}

// AddEntry records an entry manifest path. Adding it again is a no-op.
func (t *Tree) AddEntry(entry string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(entry)
}

// AddPage attaches page and its files to entry, adding entry if needed.
// A page already attached to any entry keeps its first owner.
func (t *Tree) AddPage(entry, page string, files []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, owned := t.owner[page]; owned {
		return
	}
	n := t.entry(entry)
	n.pages = append(n.pages, page)
	n.files[page] = slices.Clone(files)
	t.owner[page] = entry
	for _, f := range files {
		if _, ok := t.owner[f]; !ok {
			t.owner[f] = entry
			t.pageOf[f] = page
		}
	}
}

// SetFiles attaches entry-level files, such as the entry stylesheet.
func (t *Tree) SetFiles(entry string, files []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.entry(entry)
	for _, f := range files {
		if slices.Contains(n.own, f) {
			continue
		}
		n.own = append(n.own, f)
		if _, ok := t.owner[f]; !ok {
			t.owner[f] = entry
		}
	}
}

// Entries returns every entry in insertion order.
func (t *Tree) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}

// Pages returns the pages attached to entry, in insertion order.
func (t *Tree) Pages(entry string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.byEntry[entry]; ok {
		return slices.Clone(n.pages)
	}
	return nil
}

// Files returns the files of page.
func (t *Tree) Files(page string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.owner[page]
	if !ok {
		return nil
	}
	return slices.Clone(t.byEntry[entry].files[page])
}

// EntryFiles returns the entry-level files of entry.
func (t *Tree) EntryFiles(entry string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.byEntry[entry]; ok {
		return slices.Clone(n.own)
	}
	return nil
}

// EntryOf returns the entry owning file (or page), or "".
func (t *Tree) EntryOf(file string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, isEntry := t.byEntry[file]; isEntry {
		return file
	}
	return t.owner[file]
}

// PageOf returns the page a file belongs to, or "" for entry-level files.
func (t *Tree) PageOf(file string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageOf[file]
}

// Render prints the hierarchy. Pages are shown relative to their entry's
// directory and files by base name.
func (t *Tree) Render(rootLabel string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	root := gotree.New(rootLabel)
	for _, entry := range t.entries {
		n := t.byEntry[entry]
		entryDir := filepath.Dir(entry)

		branch := root.Add(entry)
		for _, f := range n.own {
			branch.Add(filepath.Base(f))
		}
		for _, page := range n.pages {
			label := page
			if rel, err := filepath.Rel(entryDir, page); err == nil {
				label = filepath.ToSlash(rel)
			}
			pageBranch := branch.Add(label)
			for _, f := range n.files[page] {
				pageBranch.Add(filepath.Base(f))
			}
		}
	}
	return root.Print()
}

func (t *Tree) entry(entry string) *entryNode {
	n, ok := t.byEntry[entry]
	if !ok {
		n = &entryNode{files: make(map[string][]string)}
		t.byEntry[entry] = n
		t.entries = append(t.entries, entry)
	}
	return n
}
