// SPDX-License-Identifier: MPL-2.0

package modresolve

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/logging"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/afero"
)

const (
	// DefaultCacheSize bounds the number of cached resolutions.
	DefaultCacheSize = 4096
	// DefaultCacheTTL matches the lifetime of a single resolution pass.
	DefaultCacheTTL = 4 * time.Second

	packageManifest = "package.json"
	indexName       = "index"
	modulesDir      = "node_modules"
)

// DefaultExtensions is the fixed extension order: script, then JSON.
var DefaultExtensions = []string{".js", ".json"}

type (
	// Resolver maps a request issued from contextDir to an absolute path.
	Resolver interface {
		Resolve(ctx context.Context, contextDir, request string) (string, error)
	}

	// Options configures an FSResolver.
	Options struct {
		// Fs is the filesystem to probe. Defaults to the OS filesystem.
		Fs afero.Fs
		// Root anchors app-root-relative requests such as "/components/card".
		Root string
		// Aliases maps request prefixes to directories. Relative targets are
		// taken relative to Root.
		Aliases map[string]string
		// Extensions overrides DefaultExtensions.
		Extensions []string
		// CacheSize overrides DefaultCacheSize. Negative disables caching.
		CacheSize int
		// CacheTTL overrides DefaultCacheTTL.
		CacheTTL time.Duration
		Logger   *slog.Logger
	}

	// FSResolver is the default Resolver, backed by an afero filesystem.
	FSResolver struct {
		fs         afero.Fs
		root       string
		aliases    []alias
		extensions []string
		cache      *expirable.LRU[string, string]
		logger     *slog.Logger
	}

	alias struct {
		prefix string
		target string
	}

	packageJSON struct {
		Main string `json:"main"`
	}
)

// New builds an FSResolver.
func New(opts Options) *FSResolver {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	r := &FSResolver{
		fs:         fsys,
		root:       opts.Root,
		extensions: slices.Clone(exts),
		logger:     logging.OrDiscard(opts.Logger),
	}

	for prefix, target := range opts.Aliases {
		if !filepath.IsAbs(target) && opts.Root != "" {
			target = filepath.Join(opts.Root, target)
		}
		r.aliases = append(r.aliases, alias{prefix: strings.TrimSuffix(prefix, "/"), target: target})
	}
	// Longest prefix first; ties broken lexically for a stable order.
	slices.SortFunc(r.aliases, func(a, b alias) int {
		if d := len(b.prefix) - len(a.prefix); d != 0 {
			return d
		}
		return strings.Compare(a.prefix, b.prefix)
	})

	if opts.CacheSize >= 0 {
		size := opts.CacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		ttl := opts.CacheTTL
		if ttl == 0 {
			ttl = DefaultCacheTTL
		}
		r.cache = expirable.NewLRU[string, string](size, nil, ttl)
	}

	return r
}

// Resolve implements Resolver. Failures are *issue.ResolutionError.
func (r *FSResolver) Resolve(ctx context.Context, contextDir, request string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := contextDir + "\x00" + request
	if r.cache != nil {
		if hit, ok := r.cache.Get(key); ok {
			return hit, nil
		}
	}

	resolved, err := r.resolve(contextDir, request)
	if err != nil {
		return "", &issue.ResolutionError{Context: contextDir, Request: request, Cause: err}
	}

	r.logger.Debug("resolved request", "context", contextDir, "request", request, "path", resolved)
	if r.cache != nil {
		r.cache.Add(key, resolved)
	}
	return resolved, nil
}

func (r *FSResolver) resolve(contextDir, request string) (string, error) {
	if request == "" {
		return "", errors.New("empty request")
	}

	if target, ok := r.applyAlias(request); ok {
		return r.resolvePath(target)
	}

	switch {
	case isRelative(request):
		return r.resolvePath(filepath.Join(contextDir, filepath.FromSlash(request)))
	case strings.HasPrefix(request, "/") || filepath.IsAbs(request):
		if found, err := r.resolvePath(filepath.FromSlash(request)); err == nil {
			return found, nil
		}
		if r.root == "" {
			return "", fs.ErrNotExist
		}
		return r.resolvePath(filepath.Join(r.root, filepath.FromSlash(request)))
	default:
		return r.resolveModule(contextDir, request)
	}
}

func (r *FSResolver) applyAlias(request string) (string, bool) {
	for _, a := range r.aliases {
		if request == a.prefix {
			return a.target, true
		}
		if rest, ok := strings.CutPrefix(request, a.prefix+"/"); ok {
			return filepath.Join(a.target, filepath.FromSlash(rest)), true
		}
	}
	return "", false
}

// resolveModule walks from contextDir upwards looking in every node_modules
// directory, then falls back to the app root.
func (r *FSResolver) resolveModule(contextDir, request string) (string, error) {
	rel := filepath.FromSlash(request)
	dir := filepath.Clean(contextDir)
	for {
		if filepath.Base(dir) != modulesDir {
			if found, err := r.resolvePath(filepath.Join(dir, modulesDir, rel)); err == nil {
				return found, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if r.root != "" {
		return r.resolvePath(filepath.Join(r.root, rel))
	}
	return "", fs.ErrNotExist
}

// resolvePath tries p as a file, with each extension, then as a directory.
func (r *FSResolver) resolvePath(p string) (string, error) {
	if r.isFile(p) {
		return p, nil
	}
	for _, ext := range r.extensions {
		if r.isFile(p + ext) {
			return p + ext, nil
		}
	}
	if !r.isDir(p) {
		return "", fs.ErrNotExist
	}

	if main := r.packageMain(p); main != "" {
		target := filepath.Join(p, filepath.FromSlash(main))
		if r.isFile(target) {
			return target, nil
		}
		for _, ext := range r.extensions {
			if r.isFile(target + ext) {
				return target + ext, nil
			}
		}
		if r.isDir(target) && target != p {
			if found, err := r.resolveIndex(target); err == nil {
				return found, nil
			}
		}
	}
	return r.resolveIndex(p)
}

func (r *FSResolver) resolveIndex(dir string) (string, error) {
	base := filepath.Join(dir, indexName)
	for _, ext := range r.extensions {
		if r.isFile(base + ext) {
			return base + ext, nil
		}
	}
	return "", fs.ErrNotExist
}

func (r *FSResolver) packageMain(dir string) string {
	data, err := afero.ReadFile(r.fs, filepath.Join(dir, packageManifest))
	if err != nil {
		return ""
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		r.logger.Warn("ignoring unreadable package manifest", "path", filepath.Join(dir, packageManifest), "error", err)
		return ""
	}
	return pkg.Main
}

func (r *FSResolver) isFile(p string) bool {
	info, err := r.fs.Stat(p)
	return err == nil && !info.IsDir()
}

func (r *FSResolver) isDir(p string) bool {
	info, err := r.fs.Stat(p)
	return err == nil && info.IsDir()
}

func isRelative(request string) bool {
	return request == "." || request == ".." ||
		strings.HasPrefix(request, "./") || strings.HasPrefix(request, "../")
}
