package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related module registrations.
//
// Register is called when the provider is added (or, for deferred providers,
// on the first request for one of its names). Boot is called after all eager
// providers have been registered, so it may resolve modules.
//
//	type GeometryProvider struct{ container.BaseProvider }
//
//	func (p *GeometryProvider) Register(app *container.Container) error {
//	    return app.Register("Circle", NewCircle, container.Needs("Constants"))
//	}
type ServiceProvider interface {
	// Register adds modules to the container.
	// Do NOT resolve other modules here; use Boot for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the module names this provider registers.
	// Only consulted for deferred providers.
	Provides() []string

	// IsDeferred returns true if this provider should be registered lazily,
	// the first time one of its Provides() names is requested.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // name → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method unless it is
// deferred. Adding the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted

	if provider.IsDeferred() {
		names := provider.Provides()
		for _, name := range names {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		r.app.Defer(names, func(c *Container) error { return r.loadDeferred(provider, c) })
		return nil
	}
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register provider %T: %w", provider, err)
	}
	// Late providers are booted straight away.
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// loadDeferred registers a deferred provider for real. Container.Defer
// guarantees it runs once per provider.
func (r *ProviderRegistry) loadDeferred(provider ServiceProvider, c *Container) error {
	r.mu.Lock()
	for _, name := range provider.Provides() {
		delete(r.deferred, name)
	}
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(c); err != nil {
		return fmt.Errorf("register provider %T: %w", provider, err)
	}
	if booted {
		if err := provider.Boot(c); err != nil {
			return fmt.Errorf("boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot on all eager providers. Later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers, in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Pending returns the names still waiting on a deferred provider.
func (r *ProviderRegistry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.deferred))
	for name := range r.deferred {
		out = append(out, name)
	}
	return out
}
