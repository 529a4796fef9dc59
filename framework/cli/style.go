package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/km-arc/go-simple-di/framework/graph"
)

// styles are bound to the output writer, so nothing is colored when it is
// not a terminal.
type styles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
	muted   lipgloss.Style
	problem lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#3FB950")),
		bad:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		problem: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1),
	}
}

// label colors graph.Label by node status.
func (s styles) label(n *graph.Node) string {
	text := graph.Label(n)
	switch {
	case n.Status != graph.OK:
		return s.bad.Render(text)
	case n.Resolved:
		return s.ok.Render(text)
	case n.IsOwner:
		return s.muted.Render(text)
	default:
		return text
	}
}
