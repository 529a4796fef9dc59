package container

import "fmt"

// ContextualBuilder implements the fluent per-module alias API.
//
//	// Circle declared a dependency on "Consts"; feed it "Constants".
//	err := c.When("Circle").Needs("Consts").Give("Constants")
type ContextualBuilder struct {
	container *Container
	module    string
	needs     string
}

// When starts a contextual alias for the dependencies of module.
func (c *Container) When(module string) *ContextualBuilder {
	return &ContextualBuilder{container: c, module: module}
}

// Needs names the dependency, as declared by the module, to redirect.
func (b *ContextualBuilder) Needs(local string) *ContextualBuilder {
	b.needs = local
	return b
}

// Give makes the declared dependency resolve the module registered as target.
// The module must be registered and, if it is a singleton, not yet built.
func (b *ContextualBuilder) Give(target string) error {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[b.module]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRegistered, b.module)
	}
	if m.resolved {
		return fmt.Errorf("%w: %q", ErrAlreadyResolved, b.module)
	}
	if b.needs == "" || target == "" {
		return fmt.Errorf("container: contextual alias for %q needs both a dependency and a target", b.module)
	}
	if m.aliases == nil {
		m.aliases = make(map[string]string)
	}
	m.aliases[b.needs] = target
	return nil
}
