package graph

import (
	"slices"

	"github.com/km-arc/go-simple-di/framework/container"
)

// Problem is a request that would fail if made.
type Problem struct {
	// Module is the top-level request that would fail.
	Module string `json:"module"`
	Status Status `json:"status"`
	// Chain is the resolution chain reported by the container.
	Chain   []string `json:"chain"`
	Message string   `json:"message"`
}

// Check builds the tree of every registered module and reports each
// missing dependency, cycle and unsatisfiable owner. Messages match the
// errors a Get for Module would return. Transient modules asking for their
// owner are only reported when reached through a singleton, since they are
// not meant to be requested directly.
func Check(c *container.Container) []Problem {
	var problems []Problem
	for _, name := range c.Names() {
		root, ok := Tree(c, name)
		if !ok {
			continue
		}
		root.Walk(func(n *Node, path []string) {
			if p, ok := problem(root, n, path); ok {
				problems = append(problems, p)
			}
		})
	}
	return problems
}

func problem(root, n *Node, path []string) (Problem, bool) {
	switch n.Status {
	case Missing:
		name := n.Name
		if n.Declared != "" {
			name = n.Declared
		}
		chain := append(slices.Clone(path[:len(path)-1]), name)
		return newProblem(root, n, chain, &container.UnresolvedDependencyError{Name: name, Chain: chain}), true

	case Cycle:
		chain := slices.Clone(path[slices.Index(path, n.Name):])
		return newProblem(root, n, chain, &container.CircularDependencyError{Chain: chain}), true

	case NoOwner:
		// A transient at the root simply has nobody above it yet.
		if len(path) == 2 && root.Lifecycle == container.Transient.String() {
			return Problem{}, false
		}
		return newProblem(root, n, path, &container.UnresolvedDependencyError{Name: container.OwnerName, Chain: path}), true
	}
	return Problem{}, false
}

func newProblem(root, n *Node, chain []string, err error) Problem {
	return Problem{Module: root.Name, Status: n.Status, Chain: chain, Message: err.Error()}
}
