// Package mermaid draws decision graphs as Mermaid flowcharts.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
)

// Overlay contains exploration data to highlight on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// OverlayOf collects the positions visited over steps. The last step's
// position is current.
func OverlayOf(steps []*exploration.Situation) *Overlay {
	o := &Overlay{}
	for _, s := range steps {
		if s.Position != "" {
			o.Visited = append(o.Visited, s.Position)
		}
	}
	if n := len(steps); n > 0 {
		o.Current = steps[n-1].Position
	}
	return o
}

// Generate produces a Mermaid flowchart for g.
// It applies semantic styling:
// - Unexplored placeholder: ((Circle))
// - Decision with actions: [[Subroutine]]
// - Default: [Rectangle]
// Transitions with a requirement carry it in the edge label and actions are
// drawn as dotted self loops. Overlay styles are applied when overlay is not
// nil.
func Generate(g *graph.DecisionGraph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[string]string, g.Len())
	for i, name := range g.Decisions() {
		ids[name] = fmt.Sprintf("d%d", i)
	}

	for _, name := range g.Decisions() {
		opener, closer := "[", "]"
		switch {
		case g.IsUnknown(name):
			opener, closer = "((", "))"
		case hasAction(g, name):
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[name], opener, escape(name), closer)
	}

	for _, t := range g.AllTransitions() {
		label := escape(t.Name)
		if t.Requirement != nil {
			label += " [" + escape(t.Requirement.String()) + "]"
		}
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if t.From == t.To {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", ids[t.From], arrow, ids[t.To])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			id, ok := ids[name]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if id, ok := ids[overlay.Current]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

func hasAction(g *graph.DecisionGraph, name string) bool {
	for _, t := range g.Outgoing(name) {
		if t.To == name {
			return true
		}
	}
	return false
}

// escape swaps double quotes, which Mermaid labels cannot hold.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
