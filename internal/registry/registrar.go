// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"sync"
)

const (
	// KindScript is a single script entry.
	KindScript DeclarationKind = "script"
	// KindAssets is a batch of non-script files under one chunk.
	KindAssets DeclarationKind = "assets"
)

type (
	// Registrar is the bundler side of registration.
	Registrar interface {
		// DeclareScriptEntry declares absPath as an entry named name.
		DeclareScriptEntry(contextDir, absPath, name string) error
		// DeclareAssetEntry declares files as one entry named chunkName.
		DeclareAssetEntry(contextDir string, files []string, chunkName string) error
	}

	// DeclarationKind distinguishes script entries from asset batches.
	DeclarationKind string

	// Declaration is one recorded Registrar call.
	Declaration struct {
		Kind       DeclarationKind
		ContextDir string
		// Name is the entry name for scripts and the chunk name for assets.
		Name  string
		Files []string
	}

	// Plan is a Registrar that records declarations instead of building
	// anything. The zero value is ready to use.
	Plan struct {
		mu    sync.Mutex
		decls []Declaration
	}
)

// DeclareScriptEntry implements Registrar.
func (p *Plan) DeclareScriptEntry(contextDir, absPath, name string) error {
	p.record(Declaration{Kind: KindScript, ContextDir: contextDir, Name: name, Files: []string{absPath}})
	return nil
}

// DeclareAssetEntry implements Registrar.
func (p *Plan) DeclareAssetEntry(contextDir string, files []string, chunkName string) error {
	p.record(Declaration{Kind: KindAssets, ContextDir: contextDir, Name: chunkName, Files: slices.Clone(files)})
	return nil
}

// Declarations returns every recorded declaration in call order.
func (p *Plan) Declarations() []Declaration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.decls)
}

// Files returns every declared file in declaration order.
func (p *Plan) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var files []string
	for _, d := range p.decls {
		files = append(files, d.Files...)
	}
	return files
}

func (p *Plan) record(d Declaration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decls = append(p.decls, d)
}
