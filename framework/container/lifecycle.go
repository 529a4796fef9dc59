package container

import (
	"fmt"
	"strings"
)

// Lifecycle controls how often a module's factory runs.
type Lifecycle int

const (
	// Singleton is the default. The first successful build is cached on the
	// module and returned for every later request.
	Singleton Lifecycle = iota

	// Transient modules are rebuilt on every request and never cached.
	Transient
)

// String returns the human-readable name of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// MarshalText lets lifecycles appear by name in JSON and YAML output.
func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLifecycle maps "singleton" and "transient" (any case) to a Lifecycle.
// The empty string means Singleton.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "singleton":
		return Singleton, nil
	case "transient":
		return Transient, nil
	default:
		return Singleton, fmt.Errorf("unknown lifecycle %q", s)
	}
}
