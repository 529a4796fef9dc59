package graph

import (
	"fmt"
	"strings"
)

// Render draws the tree rooted at n, one node per line. Modules already
// drawn higher up are marked with ↑:
//
//	MySingleton [singleton]
//	└─> Owned [transient]
//	    └─> __Owner = MySingleton
//
// label formats each node; nil means Label.
func Render(n *Node, label func(*Node) string) string {
	if label == nil {
		label = Label
	}
	var sb strings.Builder
	sb.WriteString(label(n))
	sb.WriteString("\n")
	renderChildren(&sb, n, "", label)
	return sb.String()
}

func renderChildren(sb *strings.Builder, n *Node, indent string, label func(*Node) string) {
	for i, ch := range n.Children {
		branch, next := "├─> ", "│   "
		if i == len(n.Children)-1 {
			branch, next = "└─> ", "    "
		}
		sb.WriteString(indent)
		sb.WriteString(branch)
		sb.WriteString(label(ch))
		sb.WriteString("\n")
		renderChildren(sb, ch, indent+next, label)
	}
}

// Label is the plain text form of a node.
func Label(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	if n.Declared != "" {
		fmt.Fprintf(&sb, " (as %s)", n.Declared)
	}
	if n.IsOwner && n.Status == OK {
		fmt.Fprintf(&sb, " = %s", n.Owner)
	}
	if n.Lifecycle != "" {
		fmt.Fprintf(&sb, " [%s]", n.Lifecycle)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(&sb, " #%s", strings.Join(n.Tags, " #"))
	}
	if n.Repeat {
		sb.WriteString(" ↑")
	}
	switch n.Status {
	case Missing:
		sb.WriteString(" ✗ missing")
	case Cycle:
		sb.WriteString(" ↻ cycle")
	case NoOwner:
		sb.WriteString(" ✗ no owner")
	default:
		if n.Resolved {
			sb.WriteString(" ✓")
		}
	}
	return sb.String()
}
