package container

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// resolver serves exactly one top-level request (Get, one module of GetByTag,
// or Invoke). It owns the resolution stack, so a cycle or failure in one
// request never leaks into another.
type resolver struct {
	c      *Container
	stack  []string
	logger *slog.Logger
}

func (c *Container) newResolver() *resolver {
	return &resolver{
		c:      c,
		logger: c.logger.With("request_id", uuid.NewString()),
	}
}

// get resolves name through the registry. Unregistered names are reported as
// not found rather than as an error.
func (r *resolver) get(name string) (any, bool, error) {
	m, ok := r.c.lookup(name)
	if !ok {
		loaded, err := r.c.loadDeferred(name)
		if err != nil {
			return nil, true, err
		}
		if !loaded {
			return nil, false, nil
		}
		if m, ok = r.c.lookup(name); !ok {
			return nil, false, nil
		}
	}

	if inst, cached := r.c.cached(m); cached {
		return inst, true, nil
	}

	inst, err := r.instantiate(m, false)
	return inst, true, err
}

// planned is a declared dependency with its alias already applied.
type planned struct {
	declared string
	target   string
	kind     DependencyKind
}

// plan snapshots the dependency list of m with aliases applied.
func (c *Container) plan(m *module) []planned {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]planned, len(m.deps))
	for i, d := range m.deps {
		out[i] = planned{declared: d.Name, target: m.target(d.Name), kind: d.Kind}
	}
	return out
}

// instantiate builds one instance of m. adhoc marks modules that are not in
// the registry (Invoke); they are never cached and fire no callbacks.
func (r *resolver) instantiate(m *module, adhoc bool) (any, error) {
	if i := slices.Index(r.stack, m.name); i >= 0 {
		// The chain starts where the cycle does, not at the top-level request.
		err := &CircularDependencyError{Chain: append(slices.Clone(r.stack[i:]), m.name)}
		r.logger.Debug("resolution failed", "module", m.name, "chain", strings.Join(err.Chain, ChainSeparator))
		return nil, err
	}

	r.stack = append(r.stack, m.name)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	r.logger.Debug("resolving module", "module", m.name, "lifecycle", m.lifecycle.String(), "depth", len(r.stack))

	deps := r.c.plan(m)
	args := make([]any, len(deps))
	for i, d := range deps {
		val, err := r.dependency(m, d)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	inst, err := m.factory(args)
	if err != nil {
		r.logger.Debug("factory failed", "module", m.name, "error", err)
		return nil, err
	}

	for _, ext := range r.c.extenders(m) {
		if inst, err = ext(inst); err != nil {
			return nil, err
		}
	}

	if adhoc {
		return inst, nil
	}
	if m.lifecycle == Singleton {
		inst = r.c.cache(m, inst)
	}

	r.logger.Debug("module resolved", "module", m.name, "lifecycle", m.lifecycle.String())
	r.c.fireAfterResolving(m.name, inst)
	return inst, nil
}

// dependency resolves one declared argument of m. The stack already has m on
// top.
func (r *resolver) dependency(m *module, d planned) (any, error) {
	if d.kind == OwnerDependency {
		// Only transients have an owner; a singleton is shared by all of them.
		if m.lifecycle == Transient && len(r.stack) >= 2 {
			return r.stack[len(r.stack)-2], nil
		}
		return nil, r.unresolved(OwnerName)
	}

	val, found, err := r.get(d.target)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, r.unresolved(d.declared)
	}
	return val, nil
}

func (r *resolver) unresolved(name string) error {
	err := &UnresolvedDependencyError{Name: name, Chain: append(slices.Clone(r.stack), name)}
	r.logger.Debug("resolution failed", "module", name, "chain", strings.Join(err.Chain, ChainSeparator))
	return err
}

// ── Singleton cache ───────────────────────────────────────────────────────────

func (c *Container) cached(m *module) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m.lifecycle == Singleton && m.resolved {
		return m.instance, true
	}
	return nil, false
}

// cache stores inst as the singleton instance of m unless another request got
// there first, in which case the earlier instance wins and is returned.
func (c *Container) cache(m *module, inst any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m.resolved {
		return m.instance
	}
	m.instance = inst
	m.resolved = true
	return inst
}

func (c *Container) extenders(m *module) []Extender {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(m.extenders)
}
