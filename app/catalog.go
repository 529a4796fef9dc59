// Package app is the example application: the factories its manifests in
// examples/basic refer to.
package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/km-arc/go-simple-di/framework/loader"
)

// ── Geometry ─────────────────────────────────────────────────────────────────

type Constants struct {
	Pi float64
}

func NewConstants() *Constants { return &Constants{Pi: 3.14159} }

type Circle struct {
	constants *Constants
}

func NewCircle(c *Constants) *Circle { return &Circle{constants: c} }

// Area returns the area of a circle of the given radius.
func (c *Circle) Area(radius float64) float64 {
	return c.constants.Pi * radius * radius
}

func (c *Circle) String() string {
	return fmt.Sprintf("Circle(pi=%g)", c.constants.Pi)
}

// ── Logging ──────────────────────────────────────────────────────────────────

// Logger is transient: each module that needs one gets its own, prefixed
// with the module's name.
type Logger struct {
	Owner string
	ID    string
}

func NewLogger(owner string) *Logger {
	return &Logger{Owner: owner, ID: uuid.NewString()}
}

// Format prefixes msg with the owner's name.
func (l *Logger) Format(msg string) string {
	return "[" + l.Owner + "] " + msg
}

// Greeter greets the first of the names it was given. Names usually come
// from a value module declared in a manifest.
type Greeter struct {
	log   *Logger
	names []any
}

func NewGreeter(log *Logger, names []any) *Greeter {
	return &Greeter{log: log, names: names}
}

func (g *Greeter) Greet() string {
	if len(g.names) == 0 {
		return g.log.Format("Hello, nobody!")
	}
	return g.log.Format(fmt.Sprintf("Hello, %v!", g.names[0]))
}

func (g *Greeter) String() string { return g.Greet() }

// Catalog returns the factories the example manifests can refer to.
func Catalog() *loader.Catalog {
	cat := loader.NewCatalog()
	for key, ctor := range map[string]any{
		"geometry.constants": NewConstants,
		"geometry.circle":    NewCircle,
		"log.logger":         NewLogger,
		"greeter":            NewGreeter,
	} {
		if err := cat.Add(key, ctor); err != nil {
			panic(err)
		}
	}
	return cat
}
