package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simple-di/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// unset clears key for the duration of the test and restores it afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var allKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "LOG_LEVEL", "LOG_FORMAT",
	"DI_ROOT", "DI_LOAD", "INSPECT_ADDR",
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	unset(t, allKeys...)
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "simple-di"},
		{"App.Env", cfg.App.Env, "local"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
		{"Loader.Root", cfg.Loader.Root, "."},
		{"Inspect.Addr", cfg.Inspect.Addr, ":8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.False(t, cfg.App.Debug)
	assert.Nil(t, cfg.Loader.Patterns)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DI_ROOT", "/srv/modules")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/modules", cfg.Loader.Root)
}

func TestLoad_EnvFile(t *testing.T) {
	unset(t, allKeys...)
	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, "127.0.0.1:9090", cfg.Inspect.Addr)
	assert.Equal(t, []string{"modules/**/*.yaml", "!modules/ignore_this_folder/**"}, cfg.Loader.Patterns)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	unset(t, allKeys...)
	t.Setenv("APP_NAME", "from-env")

	cfg := config.Load("testdata/app.env")
	assert.Equal(t, "from-env", cfg.App.Name)
}

func TestLoad_AppDebug(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	assert.True(t, config.Load("testdata/empty.env").App.Debug)

	t.Setenv("APP_DEBUG", "false")
	assert.False(t, config.Load("testdata/empty.env").App.Debug)
}

// ── Get / GetInt / GetBool / GetList ─────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	unset(t, "MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}

func TestGetList(t *testing.T) {
	t.Setenv("LIST_KEY", " a, b ,, c ")
	assert.Equal(t, []string{"a", "b", "c"}, config.GetList("LIST_KEY", nil))

	t.Setenv("LIST_KEY", " , ")
	assert.Equal(t, []string{"x"}, config.GetList("LIST_KEY", []string{"x"}))

	unset(t, "LIST_KEY")
	assert.Nil(t, config.GetList("LIST_KEY", nil))
}
