package container

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a registry of named modules plus the resolver that builds them.
//
// It supports:
//   - Register / RegisterTransient / Instance
//   - Get / Resolve (generic) / GetByTag / Invoke
//   - Tags, written inline ("Name (tag1, tag2)") or added with Tag
//   - Per-module dependency aliases (Alias option or When/Needs/Give)
//   - Extend (decorate built instances)
//   - Deferred registration and AfterResolving callbacks
//
// The mutex only guards map access. Factories always run without it held, so
// they may freely register or resolve other modules.
type Container struct {
	mu sync.RWMutex

	// name → module
	modules map[string]*module

	// tag → names, in registration order
	tags map[string][]string

	// name → loader that registers it on first request
	deferred map[string]func(*Container) error

	// resolved callbacks: []func(name, instance)
	afterResolving []func(string, any)

	logger *slog.Logger
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		modules:  make(map[string]*module),
		tags:     make(map[string][]string),
		deferred: make(map[string]func(*Container) error),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds a singleton module. name may carry tags: "Name (tag1, tag2)".
// constructor is a Factory or any function whose parameters match the
// declared dependencies (see Needs and NeedsOwner).
//
//	c.Register("Constants", func() *Constants { return &Constants{Pi: 3.14159} })
//	c.Register("Circle (shape)", NewCircle, container.Needs("Constants"))
func (c *Container) Register(name string, constructor any, opts ...RegisterOption) error {
	return c.register(name, constructor, false, opts)
}

// RegisterTransient adds a module that is rebuilt on every request.
func (c *Container) RegisterTransient(name string, constructor any, opts ...RegisterOption) error {
	return c.register(name, constructor, false, append(opts, WithLifecycle(Transient)))
}

// Instance registers an already built value as a resolved singleton.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(name string, value any, opts ...RegisterOption) error {
	m, err := c.newModule(name, Factory(func([]any) (any, error) { return value, nil }), false, opts)
	if err != nil {
		return err
	}
	m.lifecycle = Singleton
	m.instance = value
	m.resolved = true
	return c.add(m)
}

func (c *Container) register(name string, constructor any, allowNoValue bool, opts []RegisterOption) error {
	m, err := c.newModule(name, constructor, allowNoValue, opts)
	if err != nil {
		return err
	}
	return c.add(m)
}

// newModule parses the name, applies the options and adapts the constructor.
// It does not touch the registry.
func (c *Container) newModule(raw string, constructor any, allowNoValue bool, opts []RegisterOption) (*module, error) {
	name, tags := ParseName(raw)
	if name == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}

	reg := registration{lifecycle: Singleton, tags: tags}
	for _, opt := range opts {
		opt(&reg)
	}

	ad, err := adapt(name, constructor, allowNoValue)
	if err != nil {
		return nil, err
	}
	if ad.arity >= 0 && ad.arity != len(reg.deps) {
		return nil, fmt.Errorf("%w: module %q declares %d dependencies but its constructor takes %d",
			ErrInvalidConstructor, name, len(reg.deps), ad.arity)
	}

	return &module{
		name:      name,
		tags:      appendUnique(nil, reg.tags...),
		lifecycle: reg.lifecycle,
		aliases:   reg.aliases,
		deps:      reg.deps,
		factory:   ad.factory,
	}, nil
}

func (c *Container) add(m *module) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[m.name]; exists {
		return &DuplicateRegistrationError{Name: m.name}
	}
	c.modules[m.name] = m
	for _, tag := range m.tags {
		c.tags[tag] = append(c.tags[tag], m.name)
	}
	delete(c.deferred, m.name)

	c.logger.Debug("module registered",
		"module", m.name,
		"lifecycle", m.lifecycle.String(),
		"tags", m.tags,
		"dependencies", len(m.deps),
	)
	return nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag attaches tag to already registered modules.
//
//	c.Tag("reports", "CpuReport", "MemoryReport")
func (c *Container) Tag(tag string, names ...string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("container: tag cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range names {
		if _, ok := c.modules[name]; !ok {
			return fmt.Errorf("%w: %q", ErrNotRegistered, name)
		}
	}
	for _, name := range names {
		m := c.modules[name]
		if m.hasTag(tag) {
			continue
		}
		m.tags = append(m.tags, tag)
		c.tags[tag] = append(c.tags[tag], name)
	}
	return nil
}

// Tagged returns the names of the modules carrying tag, sorted.
func (c *Container) Tagged(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := slices.Clone(c.tags[tag])
	sort.Strings(names)
	return names
}

// GetByTag resolves every module carrying tag, each through its own
// top-level request, and returns them keyed by name. The first failure
// aborts the lookup.
//
//	sources, err := c.GetByTag("NameSource")
func (c *Container) GetByTag(tag string) (map[string]any, error) {
	names := c.Tagged(tag)
	out := make(map[string]any, len(names))
	for _, name := range names {
		inst, _, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		out[name] = inst
	}
	return out, nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every instance built for name from now on. Singletons that
// are already cached are never rebuilt, so extending one is an error.
//
//	c.Extend("logger", func(inst any) (any, error) {
//	    return &TimestampLogger{Inner: inst.(*Logger)}, nil
//	})
func (c *Container) Extend(name string, fn Extender) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	if m.resolved {
		return fmt.Errorf("%w: %q", ErrAlreadyResolved, name)
	}
	m.extenders = append(m.extenders, fn)
	return nil
}

// ── Deferred registration ─────────────────────────────────────────────────────

// Defer arranges for load to run the first time one of names is requested
// while still unregistered. load is expected to register those names; it
// runs at most once.
func (c *Container) Defer(names []string, load func(*Container) error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var once sync.Once
	var loadErr error
	run := func(c *Container) error {
		once.Do(func() { loadErr = load(c) })
		return loadErr
	}
	for _, name := range names {
		if _, registered := c.modules[name]; !registered {
			c.deferred[name] = run
		}
	}
}

// loadDeferred runs the deferred loader for name, if there is one. It reports
// whether a loader ran.
func (c *Container) loadDeferred(name string) (bool, error) {
	c.mu.Lock()
	load, ok := c.deferred[name]
	delete(c.deferred, name)
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := load(c); err != nil {
		return true, fmt.Errorf("container: deferred registration of %q: %w", name, err)
	}
	return true, nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every build (cache hits do
// not fire it).
func (c *Container) AfterResolving(cb func(name string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(name string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(name, instance)
	}
}

// ── Lookups ───────────────────────────────────────────────────────────────────

// lookup returns the module registered as name. It has no side effects.
func (c *Container) lookup(name string) (*module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	return m, ok
}

// Has returns true if name has been registered.
func (c *Container) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// Resolved returns true if name is a singleton whose instance is cached.
func (c *Container) Resolved(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	return ok && m.resolved
}

// Names returns all registered names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.modules))
	for name := range c.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns a snapshot of the module registered as name.
func (c *Container) Lookup(name string) (ModuleInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	if !ok {
		return ModuleInfo{}, false
	}
	return m.info(), true
}

// Modules returns snapshots of every registered module, sorted by name.
func (c *Container) Modules() []ModuleInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ModuleInfo, 0, len(c.modules))
	for _, m := range c.modules {
		out = append(out, m.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name. An unregistered name is not an error: Get returns
// (nil, false, nil). Resolution failures and factory errors come back as err
// with found set to true.
//
//	circle, ok, err := c.Get("Circle")
func (c *Container) Get(name string) (instance any, found bool, err error) {
	return c.newResolver().get(name)
}

// InvokedPrefix starts the name Invoke gives its throwaway module, as seen in
// resolution chains.
const InvokedPrefix = "invoked function: "

// Invoke runs fn with its dependencies injected and returns whatever fn
// returns. fn is wrapped in a throwaway transient module that is never
// registered and is named InvokedPrefix plus the function name. fn may
// return (T), (T, error), (error) or nothing.
//
//	sixteen, err := c.Invoke(func(m *Math) int { return m.Square(4) }, container.Needs("Math"))
func (c *Container) Invoke(fn any, opts ...RegisterOption) (any, error) {
	m, err := c.newModule("invoke", fn, true, append(opts, WithLifecycle(Transient)))
	if err != nil {
		return nil, err
	}
	// Registered names never contain blanks, so this cannot collide.
	m.name = InvokedPrefix + funcName(fn)
	return c.newResolver().instantiate(m, true)
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is a generic helper around Get. Unlike Get it treats an
// unregistered name as an error (ErrNotRegistered).
//
//	circle, err := container.Resolve[*Circle](c, "Circle")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	inst, found, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q resolved to %T, not %T", ErrDependencyType, name, inst, zero)
	}
	return typed, nil
}

// InvokeAs is Invoke with the result asserted to T.
func InvokeAs[T any](c *Container, fn any, opts ...RegisterOption) (T, error) {
	var zero T
	out, err := c.Invoke(fn, opts...)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%w: invoke returned %T, not %T", ErrDependencyType, out, zero)
	}
	return typed, nil
}
