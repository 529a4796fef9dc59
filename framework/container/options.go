package container

import "log/slog"

// registration collects the settings applied by RegisterOptions.
type registration struct {
	lifecycle Lifecycle
	tags      []string
	deps      []Dependency
	aliases   map[string]string
}

// RegisterOption configures a module during registration.
type RegisterOption func(*registration)

// Needs appends named dependencies, in order. Entries may be comma-separated
// lists; blank entries are ignored.
//
//	c.Register("Circle", NewCircle, container.Needs("Constants"))
func Needs(names ...string) RegisterOption {
	return func(r *registration) {
		for _, name := range ParseDependencies(names...) {
			r.deps = append(r.deps, Dependency{Name: name, Kind: NamedDependency})
		}
	}
}

// NeedsOwner appends the owner dependency at the current position. For a
// transient module it receives the name of the module that requested it; for
// a singleton it can never be resolved.
func NeedsOwner() RegisterOption {
	return func(r *registration) {
		r.deps = append(r.deps, Dependency{Name: OwnerName, Kind: OwnerDependency})
	}
}

// WithTags adds tags on top of any written in the "Name (tag)" syntax.
func WithTags(tags ...string) RegisterOption {
	return func(r *registration) {
		r.tags = appendUnique(r.tags, ParseDependencies(tags...)...)
	}
}

// WithLifecycle sets the Lifecycle of the module. The default is Singleton.
func WithLifecycle(l Lifecycle) RegisterOption {
	return func(r *registration) {
		r.lifecycle = l
	}
}

// WithAliases maps locally declared dependency names to registered names.
func WithAliases(aliases map[string]string) RegisterOption {
	return func(r *registration) {
		for local, target := range aliases {
			Alias(local, target)(r)
		}
	}
}

// Alias makes the dependency declared as local resolve the module registered
// as target.
//
//	c.Register("Circle", NewCircle,
//	    container.Needs("Consts"),
//	    container.Alias("Consts", "Constants"))
func Alias(local, target string) RegisterOption {
	return func(r *registration) {
		if r.aliases == nil {
			r.aliases = make(map[string]string)
		}
		r.aliases[local] = target
	}
}

// ── Container options ────────────────────────────────────────────────────────

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}
