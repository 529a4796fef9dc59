package container

import "sync"

var (
	defaultOnce      sync.Once
	defaultContainer *Container
)

// Default returns the process-wide container used by the package-level
// functions below.
func Default() *Container {
	defaultOnce.Do(func() { defaultContainer = New() })
	return defaultContainer
}

// Register adds a singleton module to the default container.
func Register(name string, constructor any, opts ...RegisterOption) error {
	return Default().Register(name, constructor, opts...)
}

// RegisterTransient adds a transient module to the default container.
func RegisterTransient(name string, constructor any, opts ...RegisterOption) error {
	return Default().RegisterTransient(name, constructor, opts...)
}

// Get resolves name from the default container.
func Get(name string) (any, bool, error) {
	return Default().Get(name)
}

// GetByTag resolves every module tagged tag in the default container.
func GetByTag(tag string) (map[string]any, error) {
	return Default().GetByTag(tag)
}

// Invoke runs fn against the default container.
func Invoke(fn any, opts ...RegisterOption) (any, error) {
	return Default().Invoke(fn, opts...)
}
