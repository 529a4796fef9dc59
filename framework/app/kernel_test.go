package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simple-di/framework/app"
	"github.com/km-arc/go-simple-di/framework/config"
	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/loader"
	"github.com/km-arc/go-simple-di/framework/providers"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// isolated returns a directory the loader will not walk out of.
func isolated(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write(t, dir, "go.mod", "module example.com/isolated\n")
	return dir
}

func testConfig(root string, patterns ...string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "test", Env: "testing"},
		Log:     config.LogConfig{Level: "debug", Format: "text"},
		Loader:  config.LoaderConfig{Root: root, Patterns: patterns},
		Inspect: config.InspectConfig{Addr: "127.0.0.1:0"},
	}
}

func catalog(t *testing.T) *loader.Catalog {
	t.Helper()
	cat := loader.NewCatalog()
	require.NoError(t, cat.Add("answer", func() int { return 42 }))
	require.NoError(t, cat.Add("double", func(n int) int { return n * 2 }))
	return cat
}

type greeterProvider struct {
	container.BaseProvider
	booted bool
}

func (p *greeterProvider) Register(app *container.Container) error {
	return app.Register("Greeting", func() string { return "hello" })
}

func (p *greeterProvider) Boot(_ *container.Container) error {
	p.booted = true
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestNew_BindsFrameworkModules(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(isolated(t))
	a, err := app.New(cfg, app.WithLogOutput(&logs))
	require.NoError(t, err)

	got, err := container.Resolve[*config.Config](a.Container, providers.ConfigModule)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
	assert.Same(t, cfg, a.Config())

	assert.True(t, a.Has(providers.LoggerModule))
	assert.True(t, a.Has(providers.LoaderModule))
	assert.False(t, a.Has(providers.InspectModule), "inspect is deferred")
	assert.Equal(t, []string{providers.InspectModule}, a.Providers.Pending())
	assert.Equal(t, []string{"config", "loader", "logger"}, a.Tagged(providers.FrameworkTag))
}

func TestBoot_LoadsPatterns(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "modules/answer.yaml", "modules:\n  - name: Answer\n    factory: answer\n")
	write(t, dir, "modules/double.yaml", "modules:\n  - name: Double\n    factory: double\n    needs: [Answer]\n")
	write(t, dir, "modules/skip/broken.yaml", "not: [valid")

	a, err := app.New(testConfig(dir, "modules/**/*.yaml", "!modules/skip"),
		app.WithCatalog(catalog(t)), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, a.Boot())

	n, err := container.Resolve[int](a.Container, "Double")
	require.NoError(t, err)
	assert.Equal(t, 84, n)

	l, err := a.Loader()
	require.NoError(t, err)
	assert.Len(t, l.Files(), 2)
}

func TestBoot_LoadsFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".simple-di.yaml", "root: true\nload: ['*.yaml']\n")
	write(t, dir, "answer.yaml", "modules:\n  - name: Answer\n    factory: answer\n")

	a, err := app.New(testConfig(dir), app.WithCatalog(catalog(t)), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	assert.True(t, a.Has("Answer"))
}

func TestBoot_ReportsLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "bad.yaml", "modules:\n  - name: Bad\n    factory: nope\n")

	a, err := app.New(testConfig(dir, "*.yaml"), app.WithCatalog(catalog(t)), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	err = a.Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown factory "nope"`)
}

func TestWithProviders(t *testing.T) {
	p := &greeterProvider{}
	a, err := app.New(testConfig(isolated(t)), app.WithProviders(p), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, a.Boot())

	assert.True(t, p.booted)
	greeting, err := container.Resolve[string](a.Container, "Greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", greeting)
}

func TestInspector_IsDeferred(t *testing.T) {
	a, err := app.New(testConfig(isolated(t)), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	srv, err := a.Inspector()
	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.True(t, a.Has(providers.InspectModule))
	assert.Empty(t, a.Providers.Pending())

	again, err := a.Inspector()
	require.NoError(t, err)
	assert.Same(t, srv, again)
}

func TestEnvironmentHelpers(t *testing.T) {
	a, err := app.New(testConfig(isolated(t)), app.WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsDebug())
	assert.Equal(t, app.Version, a.Version())
}
