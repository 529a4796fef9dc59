// Package container provides a named-module dependency injection container
// and a Service Provider system for Go.
//
// # Overview
//
// A module is a name, an optional set of tags, a lifecycle and a constructor
// whose parameters are other modules, listed by name. Modules are built
// lazily on the first request: singletons once, transients on every request.
//
// Because Go cannot read parameter names at runtime, dependencies are
// declared next to the constructor with Needs.
//
// # Registering
//
//	c := container.New()
//
//	// Singleton (the default)
//	c.Register("Constants", func() *Constants { return &Constants{Pi: 3.14159} })
//
//	// Dependencies are passed positionally
//	c.Register("Circle", NewCircle, container.Needs("Constants"))
//
//	// Tags, inline or as an option
//	c.Register("FirstNames (NameSource)", NewFirstNames)
//	c.Register("LastNames", NewLastNames, container.WithTags("NameSource"))
//
//	// Transient, rebuilt on every request
//	c.RegisterTransient("RequestID", NewRequestID)
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
// # Resolving
//
//	// Untyped; found is false for unregistered names
//	inst, found, err := c.Get("Circle")
//
//	// Generic
//	circle, err := container.Resolve[*Circle](c, "Circle")
//
//	// Everything carrying a tag, keyed by name
//	sources, err := c.GetByTag("NameSource")
//
//	// A function that is not a module
//	area, err := c.Invoke(func(circle *Circle) float64 { return circle.Area(4) },
//	    container.Needs("Circle"))
//
// # Errors
//
//	A module named 'A' has already been registered!   ErrDuplicateRegistration
//	Circular dependency found! A -> B -> A           ErrCircularDependency
//	Could not resolve 'C'! A -> B -> C               ErrUnresolvedDependency
//
// # Owner
//
// A transient module may ask who is pulling it in with NeedsOwner. The value
// is the name of the module one level up the resolution chain. Singletons are
// shared, so they have no owner, and a transient requested directly has
// nothing above it; both fail with an unresolved '__Owner'.
//
//	c.RegisterTransient("Logger", func(owner string) *Logger {
//	    return &Logger{Prefix: owner}
//	}, container.NeedsOwner())
//
// # Aliases and decoration
//
//	c.When("Circle").Needs("Consts").Give("Constants")
//	c.Extend("Logger", func(inst any) (any, error) { return wrap(inst), nil })
//
// # Service Providers
//
//	type GeometryProvider struct{ container.BaseProvider }
//
//	func (p *GeometryProvider) Register(app *container.Container) error {
//	    return app.Register("Circle", NewCircle, container.Needs("Constants"))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&GeometryProvider{})
//	registry.Boot()
//
// Deferred providers (IsDeferred true) are registered the first time one of
// their Provides() names is requested.
package container
