package providers_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simple-di/framework/config"
	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/inspect"
	"github.com/km-arc/go-simple-di/framework/loader"
	"github.com/km-arc/go-simple-di/framework/logging"
	"github.com/km-arc/go-simple-di/framework/providers"
)

func setup(t *testing.T, cfg *config.Config, catalog *loader.Catalog) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logging.Discard()},
		&providers.LoaderServiceProvider{Catalog: catalog},
		&providers.InspectServiceProvider{},
	} {
		require.NoError(t, reg.Register(p))
	}
	return c, reg
}

func TestConfigAndLoggerAreInstances(t *testing.T) {
	cfg := &config.Config{}
	c, _ := setup(t, cfg, nil)

	assert.True(t, c.Resolved(providers.ConfigModule))
	assert.True(t, c.Resolved(providers.LoggerModule))

	logger, err := container.Resolve[*slog.Logger](c, providers.LoggerModule)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoaderProvider_BootLoadsManifests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pi.yaml"),
		[]byte("modules:\n  - name: Pi\n    value: 3.14159\n"), 0o644))

	cfg := &config.Config{Loader: config.LoaderConfig{Root: dir, Patterns: []string{"*.yaml"}}}
	c, reg := setup(t, cfg, loader.NewCatalog())

	assert.False(t, c.Has("Pi"))
	require.NoError(t, reg.Boot())

	pi, err := container.Resolve[float64](c, "Pi")
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, pi, 1e-9)
}

func TestInspectProvider_Deferred(t *testing.T) {
	c, reg := setup(t, &config.Config{}, nil)

	assert.False(t, c.Has(providers.InspectModule))
	assert.Equal(t, []string{providers.InspectModule}, reg.Pending())

	srv, err := container.Resolve[*inspect.Server](c, providers.InspectModule)
	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.Empty(t, reg.Pending())
	assert.Equal(t, []string{"config", "inspect", "loader", "logger"}, c.Tagged(providers.FrameworkTag))
}
