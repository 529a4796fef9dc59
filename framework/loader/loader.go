package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/km-arc/go-simple-di/framework/container"
)

// ConfigNames are the file names LoadFromDir looks for, in order.
var ConfigNames = []string{".simple-di.yaml", ".simple-di.yml", ".simple-di.json", ".simple-di.hcl"}

// moduleBoundary marks the top of a Go module; the config walk stops there.
const moduleBoundary = "go.mod"

// Loader discovers module manifests and registers their modules into a
// container. A file is only ever loaded once per Loader, and LoadFromDir
// visits each directory once.
type Loader struct {
	container *container.Container
	catalog   *Catalog
	logger    *slog.Logger

	mu      sync.Mutex
	loaded  map[string]bool
	order   []string
	visited map[string]bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for discovery events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader registering into c, resolving factory keys through
// catalog.
func New(c *container.Container, catalog *Catalog, opts ...Option) *Loader {
	if catalog == nil {
		catalog = NewCatalog()
	}
	l := &Loader{
		container: c,
		catalog:   catalog,
		logger:    slog.New(slog.DiscardHandler),
		loaded:    make(map[string]bool),
		visited:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Files returns the manifests loaded so far, in load order.
func (l *Loader) Files() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// ── Entry points ─────────────────────────────────────────────────────────────

// Load loads every manifest matching patterns, which are doublestar globs
// relative to baseDir. Patterns starting with "!" exclude matches; an
// excluded directory excludes everything below it.
//
//	l.Load("examples/basic", "**/*.yaml", "!ignore_this_folder")
func (l *Loader) Load(baseDir string, patterns ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(baseDir, patterns)
}

// LoadHere is Load relative to the directory of the calling source file.
func (l *Loader) LoadHere(patterns ...string) error {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return errors.New("loader: cannot determine caller location")
	}
	return l.Load(filepath.Dir(file), patterns...)
}

// LoadFromDir looks for a .simple-di config in dir and loads what its "load"
// list names. It then moves to the parent directory, unless the config says
// root: true or dir holds a go.mod.
func (l *Loader) LoadFromDir(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}

	for {
		if l.visited[dir] {
			return nil
		}
		l.visited[dir] = true

		root, err := l.loadConfig(dir)
		if err != nil {
			return err
		}
		if root {
			return nil
		}
		if exists(filepath.Join(dir, moduleBoundary)) {
			return nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// LoadFile loads a single manifest.
func (l *Loader) LoadFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadFile(path)
}

// ── Internals (l.mu held) ────────────────────────────────────────────────────

// loadConfig loads the config file in dir, if any, and reports whether it
// is marked as root.
func (l *Loader) loadConfig(dir string) (bool, error) {
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if !exists(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("loader: %s: %w", path, err)
		}
		cfg, err := DecodeConfig(path, data)
		if err != nil {
			return false, fmt.Errorf("loader: %s: %w", path, err)
		}
		l.logger.Debug("config found", "path", path, "root", cfg.Root, "patterns", len(cfg.Load))
		if err := l.load(dir, cfg.Load); err != nil {
			return false, err
		}
		return cfg.Root, nil
	}
	return false, nil
}

func (l *Loader) load(baseDir string, patterns []string) error {
	files, err := Match(baseDir, patterns...)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := l.loadFile(file); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadFile(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if l.loaded[path] {
		return nil
	}
	l.loaded[path] = true
	l.order = append(l.order, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	m, err := DecodeManifest(path, data)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	if err := m.register(l.container, l.catalog); err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}

	l.logger.Debug("manifest loaded", "path", path, "modules", len(m.Modules))
	return nil
}

// ── Matching ─────────────────────────────────────────────────────────────────

// Match expands patterns relative to baseDir into absolute manifest paths,
// sorted and deduplicated. Patterns starting with "!" are exclusions.
// Non-manifest files and .simple-di configs are skipped.
func Match(baseDir string, patterns ...string) ([]string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	var include, exclude []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "" || p == "!":
		case strings.HasPrefix(p, "!"):
			ex := filepath.Join(base, filepath.FromSlash(p[1:]))
			exclude = append(exclude, ex, filepath.Join(ex, "**"))
		default:
			include = append(include, p)
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, p := range include {
		pattern := p
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, filepath.FromSlash(p))
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("loader: pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if seen[m] || !isManifestFile(m) || isConfigFile(m) {
				continue
			}
			excluded, err := matchesAny(exclude, m)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func matchesAny(patterns []string, path string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.PathMatch(p, path)
		if err != nil {
			return false, fmt.Errorf("loader: exclude pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range ConfigNames {
		if base == name {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
