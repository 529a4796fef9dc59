package providers

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/km-arc/go-simple-di/framework/config"
	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/inspect"
	"github.com/km-arc/go-simple-di/framework/loader"
)

// Module names bound by the framework providers. All of them carry the
// "framework" tag.
const (
	ConfigModule  = "config"
	LoggerModule  = "logger"
	LoaderModule  = "loader"
	InspectModule = "inspect"

	FrameworkTag = "framework"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the already loaded configuration.
//
// Bound modules:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	return app.Instance(ConfigModule, p.Config, container.WithTags(FrameworkTag))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound modules:
//   - "logger"  → *slog.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *slog.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return app.Instance(LoggerModule, p.Logger, container.WithTags(FrameworkTag))
}

// ── LoaderServiceProvider ─────────────────────────────────────────────────────

// LoaderServiceProvider registers the manifest loader and, on boot, loads
// the manifests the configuration points at: the DI_LOAD patterns when
// set, the .simple-di config file found from DI_ROOT otherwise.
//
// Bound modules:
//   - "loader"  → *loader.Loader   (needs "config", "logger")
type LoaderServiceProvider struct {
	container.BaseProvider
	Catalog *loader.Catalog
}

func (p *LoaderServiceProvider) Register(app *container.Container) error {
	catalog := p.Catalog
	if catalog == nil {
		catalog = loader.NewCatalog()
	}
	return app.Register(LoaderModule, func(logger *slog.Logger) *loader.Loader {
		return loader.New(app, catalog, loader.WithLogger(logger))
	}, container.Needs(LoggerModule), container.WithTags(FrameworkTag))
}

func (p *LoaderServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigModule)
	if err != nil {
		return err
	}
	l, err := container.Resolve[*loader.Loader](app, LoaderModule)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Loader.Root)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if len(cfg.Loader.Patterns) > 0 {
		return l.Load(root, cfg.Loader.Patterns...)
	}
	return l.LoadFromDir(root)
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the inspection HTTP API. It is deferred:
// nothing is built until "inspect" is first requested.
//
// Bound modules:
//   - "inspect"  → *inspect.Server  (needs "logger")
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	return app.Register(InspectModule, func(logger *slog.Logger) *inspect.Server {
		return inspect.New(app, inspect.WithLogger(logger))
	}, container.Needs(LoggerModule), container.WithTags(FrameworkTag))
}

func (p *InspectServiceProvider) Provides() []string { return []string{InspectModule} }
func (p *InspectServiceProvider) IsDeferred() bool   { return true }
