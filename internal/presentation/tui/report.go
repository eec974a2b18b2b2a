// Package tui renders sessions for people reading them in a terminal.
package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
)

// SessionReport describes a session's history as Markdown: one table row
// per step, oldest first.
func SessionReport(sessionID string, x *exploration.Exploration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Session `%s`\n\n", sessionID)

	if x.Len() == 0 {
		b.WriteString("_Not started._\n")
		return b.String()
	}

	cur, _ := x.Current()
	position := cur.Position
	if position == "" {
		position = "-"
	}
	fmt.Fprintf(&b, "**Position:** %s | **Steps:** %d | **Decisions:** %d\n\n",
		cell(position), x.Len(), cur.Graph.Len())

	b.WriteString("| # | Transition | Position | Powers | Tokens | Tags |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, s := range x.Steps() {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i,
			cell(s.Transition),
			cell(s.Position),
			cell(strings.Join(s.State.PowerList(), ", ")),
			cell(tokens(s.State)),
			cell(tags(s.Tags)),
		)
	}

	if len(cur.Annotations) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, note := range cur.Annotations {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	return b.String()
}

func tokens(s *domain.State) string {
	parts := make([]string, 0, len(s.Tokens))
	for _, name := range slices.Sorted(maps.Keys(s.Tokens)) {
		parts = append(parts, fmt.Sprintf("%s:%d", name, s.Tokens[name]))
	}
	return strings.Join(parts, ", ")
}

func tags(t domain.Tags) string {
	parts := make([]string, 0, len(t))
	for _, name := range t.Names() {
		parts = append(parts, fmt.Sprintf("%s=%v", name, t[name]))
	}
	return strings.Join(parts, ", ")
}

// cell keeps a value from breaking the table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
