package container

import "slices"

// Extender decorates a freshly built instance before it is returned or
// cached.
type Extender func(instance any) (any, error)

// module is the registry entry for one registered name. Everything but the
// singleton cache and the extender list is fixed at registration time; both
// are guarded by the owning Container's mutex.
type module struct {
	name      string
	tags      []string
	lifecycle Lifecycle
	aliases   map[string]string
	deps      []Dependency
	factory   Factory
	extenders []Extender

	instance any
	resolved bool
}

// target returns the registered name a declared dependency refers to.
func (m *module) target(name string) string {
	if t, ok := m.aliases[name]; ok {
		return t
	}
	return name
}

func (m *module) hasTag(tag string) bool {
	return slices.Contains(m.tags, tag)
}

// ModuleInfo is a read-only snapshot of a registered module.
type ModuleInfo struct {
	Name         string           `json:"name"`
	Tags         []string         `json:"tags"`
	Lifecycle    Lifecycle        `json:"lifecycle"`
	Dependencies []DependencyInfo `json:"dependencies"`
	Resolved     bool             `json:"resolved"`
}

// DependencyInfo describes one declared dependency after alias translation.
type DependencyInfo struct {
	Declared string `json:"declared"`
	Target   string `json:"target"`
	Owner    bool   `json:"owner,omitempty"`
}

func (m *module) info() ModuleInfo {
	deps := make([]DependencyInfo, len(m.deps))
	for i, d := range m.deps {
		deps[i] = DependencyInfo{Declared: d.Name, Target: m.target(d.Name)}
		if d.Kind == OwnerDependency {
			deps[i] = DependencyInfo{Declared: OwnerName, Target: OwnerName, Owner: true}
		}
	}
	tags := slices.Clone(m.tags)
	if tags == nil {
		tags = []string{}
	}
	return ModuleInfo{
		Name:         m.name,
		Tags:         tags,
		Lifecycle:    m.lifecycle,
		Dependencies: deps,
		Resolved:     m.resolved,
	}
}
