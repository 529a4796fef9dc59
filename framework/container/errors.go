package container

import (
	"errors"
	"fmt"
	"strings"
)

// ChainSeparator joins module names in cycle and resolution chains.
const ChainSeparator = " -> "

var (
	// ErrDuplicateRegistration matches a *DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrCircularDependency matches a *CircularDependencyError.
	ErrCircularDependency = errors.New("circular dependency")

	// ErrUnresolvedDependency matches a *UnresolvedDependencyError.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrInvalidName is returned when a registration name has no bare name.
	ErrInvalidName = errors.New("invalid module name")

	// ErrInvalidConstructor is returned when a constructor cannot be adapted
	// into a Factory for the declared dependencies.
	ErrInvalidConstructor = errors.New("invalid constructor")

	// ErrDependencyType is returned when a resolved value does not fit the
	// constructor parameter (or generic type) it is passed to.
	ErrDependencyType = errors.New("dependency type mismatch")

	// ErrNotRegistered is returned by helpers that need a registered module,
	// such as Resolve, Extend and Tag. Get reports absence without an error.
	ErrNotRegistered = errors.New("module not registered")

	// ErrAlreadyResolved is returned when a singleton that has already been
	// cached would have to be rebuilt for a change to take effect.
	ErrAlreadyResolved = errors.New("module already resolved")
)

// ── Typed errors ─────────────────────────────────────────────────────────────

// DuplicateRegistrationError reports a second registration under an existing
// name. The first registration is left untouched.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("A module named '%s' has already been registered!", e.Name)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// CircularDependencyError carries the cycle, starting and ending with the
// module that closed it: [A B A].
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "Circular dependency found! " + strings.Join(e.Chain, ChainSeparator)
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// UnresolvedDependencyError carries the chain from the top-level request down
// to the dependency that could not be found. Name is the last chain entry.
type UnresolvedDependencyError struct {
	Name  string
	Chain []string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("Could not resolve '%s'! %s", e.Name, strings.Join(e.Chain, ChainSeparator))
}

func (e *UnresolvedDependencyError) Is(target error) bool {
	return target == ErrUnresolvedDependency
}
