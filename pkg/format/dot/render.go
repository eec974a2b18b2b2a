// Package dot reads and writes decision graphs in a restricted Graphviz DOT
// dialect.
//
// Decisions are node statements and transitions are edge statements. The
// transition name lives in the fullLabel attribute, tags in t_<tag>
// attributes holding codec-encoded values and annotations in ann. Zone
// membership is marked on nodes with z_<zone> attributes. Every zone is a
// cluster_<zone> subgraph carrying level and parents.
//
// Requirements and effect lists are written once into the __requirements__
// and __effects__ legend subgraphs and referenced from edges by short keys
// (a, b, ..., z, aa, ab, ...). Power equivalences go to __equivalences__.
package dot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/graph"
)

const (
	legendRequirements = "__requirements__"
	legendEffects      = "__effects__"
	legendEquivalences = "__equivalences__"
	zonePrefix         = "cluster_"
	tagPrefix          = "t_"
	zoneMarkPrefix     = "z_"
)

// abbreviations hands out keys in first-seen order.
type abbreviations struct {
	keys  map[string]string
	order []string
}

func (a *abbreviations) key(text string) string {
	if k, ok := a.keys[text]; ok {
		return k
	}
	if a.keys == nil {
		a.keys = make(map[string]string)
	}
	k := abbreviation(len(a.order))
	a.keys[text] = k
	a.order = append(a.order, text)
	return k
}

// abbreviation maps 0, 1, ..., 25, 26, ... to a, b, ..., z, aa, ....
func abbreviation(n int) string {
	var out []byte
	for {
		out = append([]byte{byte('a' + n%26)}, out...)
		n = n/26 - 1
		if n < 0 {
			return string(out)
		}
	}
}

// Render writes g to w.
func Render(w io.Writer, g *graph.DecisionGraph) error {
	var body bytes.Buffer
	var reqs, effects abbreviations

	for _, name := range g.Decisions() {
		d, err := g.Decision(name)
		if err != nil {
			return err
		}
		attrs, err := tagAttrs(d.Tags)
		if err != nil {
			return fmt.Errorf("decision %q: %w", name, err)
		}
		for _, z := range d.Zones {
			attrs = append(attrs, attr{zoneMarkPrefix + z, "1"})
		}
		if len(d.Annotations) > 0 {
			ann, err := json.Marshal(d.Annotations)
			if err != nil {
				return err
			}
			attrs = append(attrs, attr{"ann", string(ann)})
		}
		fmt.Fprintf(&body, "\t%s%s\n", quote(name), attrList(attrs))
	}

	for _, t := range g.AllTransitions() {
		attrs := []attr{{"label", t.Name}, {"fullLabel", t.Name}}
		if t.Reciprocal != "" {
			attrs = append(attrs, attr{"reciprocal", t.Reciprocal})
		}
		if t.Requirement != nil {
			attrs = append(attrs, attr{"req", reqs.key(t.Requirement.String())})
		}
		if len(t.Effects) > 0 {
			data, err := codec.MarshalEffects(t.Effects)
			if err != nil {
				return fmt.Errorf("transition %s/%s: %w", t.From, t.Name, err)
			}
			attrs = append(attrs, attr{"effects", effects.key(string(data))})
		}
		tags, err := tagAttrs(t.Tags)
		if err != nil {
			return fmt.Errorf("transition %s/%s: %w", t.From, t.Name, err)
		}
		attrs = append(attrs, tags...)
		if len(t.Annotations) > 0 {
			ann, err := json.Marshal(t.Annotations)
			if err != nil {
				return err
			}
			attrs = append(attrs, attr{"ann", string(ann)})
		}
		fmt.Fprintf(&body, "\t%s -> %s%s\n", quote(t.From), quote(t.To), attrList(attrs))
	}

	for _, name := range g.Zones() {
		z, err := g.Zone(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(&body, "\tsubgraph %s {\n", quote(zonePrefix+name))
		fmt.Fprintf(&body, "\t\tlevel=%d\n", z.Level)
		if len(z.Parents) > 0 {
			parents, err := json.Marshal(z.Parents)
			if err != nil {
				return err
			}
			fmt.Fprintf(&body, "\t\tparents=%s\n", quote(string(parents)))
		}
		for _, d := range z.Decisions {
			fmt.Fprintf(&body, "\t\t%s\n", quote(d))
		}
		body.WriteString("\t}\n")
	}

	var out bytes.Buffer
	out.WriteString("digraph {\n")
	fmt.Fprintf(&out, "\tunknownCount=%d\n", g.UnknownCount())
	writeLegend(&out, legendRequirements, &reqs)
	writeLegend(&out, legendEffects, &effects)
	if err := writeEquivalences(&out, g.Equivalences()); err != nil {
		return err
	}
	out.Write(body.Bytes())
	out.WriteString("}\n")
	_, err := w.Write(out.Bytes())
	return err
}

// RenderString is Render into a string.
func RenderString(g *graph.DecisionGraph) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, g); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeLegend(out *bytes.Buffer, name string, a *abbreviations) {
	if len(a.order) == 0 {
		return
	}
	fmt.Fprintf(out, "\tsubgraph %s {\n", name)
	for _, text := range a.order {
		fmt.Fprintf(out, "\t\t%s [label=%s]\n", a.keys[text], quote(text))
	}
	out.WriteString("\t}\n")
}

func writeEquivalences(out *bytes.Buffer, eqs domain.Equivalences) error {
	if len(eqs) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\tsubgraph %s {\n", legendEquivalences)
	for _, power := range slices.Sorted(maps.Keys(eqs)) {
		alts := make([]string, len(eqs[power]))
		for i, r := range eqs[power] {
			alts[i] = r.String()
		}
		data, err := json.Marshal(alts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\t\t%s [alternatives=%s]\n", quote(power), quote(string(data)))
	}
	out.WriteString("\t}\n")
	return nil
}

type attr struct {
	key, value string
}

func tagAttrs(tags domain.Tags) ([]attr, error) {
	var attrs []attr
	for _, name := range tags.Names() {
		data, err := codec.Marshal(tags[name])
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		attrs = append(attrs, attr{tagPrefix + name, string(data)})
	}
	return attrs, nil
}

func attrList(attrs []attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var b bytes.Buffer
	b.WriteString(" [")
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quote(a.key))
		b.WriteByte('=')
		b.WriteString(quote(a.value))
	}
	b.WriteByte(']')
	return b.String()
}

// quote leaves plain identifiers bare.
func quote(s string) string {
	if isPlainID(s) {
		return s
	}
	return strconv.Quote(s)
}

func isPlainID(s string) bool {
	if s == "" || isKeyword(s) {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func isKeyword(s string) bool {
	switch s {
	case "digraph", "graph", "subgraph", "node", "edge", "strict":
		return true
	}
	return false
}
