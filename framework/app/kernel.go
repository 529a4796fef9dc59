package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/km-arc/go-simple-di/framework/config"
	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/inspect"
	"github.com/km-arc/go-simple-di/framework/loader"
	"github.com/km-arc/go-simple-di/framework/logging"
	"github.com/km-arc/go-simple-di/framework/providers"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Register(), app.Get(), app.Tagged() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	catalog   *loader.Catalog
	logOutput io.Writer
	providers []container.ServiceProvider
}

// WithCatalog sets the factories manifests may refer to.
func WithCatalog(catalog *loader.Catalog) Option {
	return func(o *options) { o.catalog = catalog }
}

// WithLogOutput redirects logs; the default is stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithProviders registers application providers after the framework ones.
func WithProviders(p ...container.ServiceProvider) Option {
	return func(o *options) { o.providers = append(o.providers, p...) }
}

// New creates the application for cfg and registers the framework
// providers. Manifests are loaded on Boot. A nil cfg means config.Load().
//
//	application, err := app.New(config.Load(), app.WithCatalog(catalog))
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.Load()
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, o.logOutput).With("app", cfg.App.Name)
	c := container.New(container.WithLogger(logger))
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
		config:    cfg,
		logger:    logger,
	}

	// Framework core providers first, in dependency order.
	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logger},
		&providers.LoaderServiceProvider{Catalog: o.catalog},
		&providers.InspectServiceProvider{},
	}
	for _, p := range append(core, o.providers...) {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application. The embedded
// Container's Register is shadowed; use a.Container.Register for modules.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers, which loads the manifests.
func (a *Application) Boot() error {
	if err := a.Providers.Boot(); err != nil {
		return err
	}
	a.logger.Debug("application booted", "modules", len(a.Names()))
	return nil
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Loader resolves the manifest loader.
func (a *Application) Loader() (*loader.Loader, error) {
	return container.Resolve[*loader.Loader](a.Container, providers.LoaderModule)
}

// Inspector resolves the inspection server, building it on first use.
func (a *Application) Inspector() (*inspect.Server, error) {
	return container.Resolve[*inspect.Server](a.Container, providers.InspectModule)
}

// Run boots the application (if needed) and serves the inspection API on
// INSPECT_ADDR until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	srv, err := a.Inspector()
	if err != nil {
		return err
	}
	a.logger.Info("serving container inspection",
		"addr", a.config.Inspect.Addr,
		"env", a.config.App.Env,
		"modules", len(a.Names()),
	)
	return srv.ListenAndServe(ctx, a.config.Inspect.Addr)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
func (a *Application) Version() string     { return Version }

// Version is the framework version.
const Version = "0.1.0"
