package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Loader  LoaderConfig
	Inspect InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// LoaderConfig controls manifest discovery.
type LoaderConfig struct {
	// Root is the directory manifests are discovered from.
	Root string
	// Patterns are glob patterns relative to Root; a leading "!" excludes.
	// When empty, Root is searched for a .simple-di config file instead.
	Patterns []string
}

type InspectConfig struct {
	Addr string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "simple-di"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", false),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "text"),
		},
		Loader: LoaderConfig{
			Root:     env("DI_ROOT", "."),
			Patterns: GetList("DI_LOAD", nil),
		},
		Inspect: InspectConfig{
			Addr: env("INSPECT_ADDR", ":8000"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// GetList returns a comma-separated env value as a slice, with entries
// trimmed and blanks dropped.
func GetList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
