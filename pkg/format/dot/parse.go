package dot

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/graph"
)

// ParseError reports malformed input. No graph is returned alongside it.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dot %d:%d: %s: %v", e.Line, e.Column, e.Msg, e.Err)
	}
	return fmt.Sprintf("dot %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

type pos struct{ line, col int }

func (p pos) fail(err error, format string, args ...any) *ParseError {
	return &ParseError{Line: p.line, Column: p.col, Msg: fmt.Sprintf(format, args...), Err: err}
}

type attrs map[string]string

type edgeStmt struct {
	at       pos
	from, to string
	attrs    attrs
}

type zoneStmt struct {
	at      pos
	name    string
	attrs   attrs
	members []string
}

type legendEntry struct {
	key   string
	attrs attrs
}

// document is the statement tree of one digraph before it is turned into a
// DecisionGraph.
type document struct {
	attrs     attrs
	decisions []string
	nodeAttrs map[string]attrs
	nodePos   map[string]pos
	edges     []edgeStmt
	zones     []*zoneStmt
	legends   map[string][]legendEntry
}

func (d *document) touch(name string, at pos) attrs {
	a, ok := d.nodeAttrs[name]
	if !ok {
		a = attrs{}
		d.nodeAttrs[name] = a
		d.nodePos[name] = at
		d.decisions = append(d.decisions, name)
	}
	return a
}

type scope struct {
	legend string
	zone   *zoneStmt
	attrs  attrs
}

type bailout struct{ err *ParseError }

type parser struct {
	s   scanner.Scanner
	tok rune
	doc *document
}

// Parse reads one digraph written by Render. Unknown attributes and plain
// subgraphs are accepted; their node and edge statements count as top level.
func Parse(r io.Reader) (g *graph.DecisionGraph, err error) {
	p := &parser{doc: &document{
		attrs:     attrs{},
		nodeAttrs: make(map[string]attrs),
		nodePos:   make(map[string]pos),
		legends:   make(map[string][]legendEntry),
	}}
	p.s.Init(r)
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		panic(bailout{&ParseError{Line: s.Position.Line, Column: s.Position.Column, Msg: msg}})
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			g, err = nil, b.err
		}
	}()
	p.next()
	p.graph()
	return build(p.doc)
}

// ParseString is Parse over a string.
func ParseString(text string) (*graph.DecisionGraph, error) {
	return Parse(strings.NewReader(text))
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) at() pos {
	return pos{p.s.Position.Line, p.s.Position.Column}
}

func (p *parser) errorf(format string, args ...any) {
	panic(bailout{p.at().fail(nil, format, args...)})
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.errorf("expected %s, found %q", scanner.TokenString(tok), p.s.TokenText())
	}
	p.next()
}

func (p *parser) keyword(word string) bool {
	return p.tok == scanner.Ident && p.s.TokenText() == word
}

func (p *parser) graph() {
	if p.keyword("strict") {
		p.next()
	}
	if !p.keyword("digraph") {
		p.errorf("expected digraph, found %q", p.s.TokenText())
	}
	p.next()
	if p.tok != '{' {
		p.id()
	}
	p.expect('{')
	p.stmts(&scope{attrs: p.doc.attrs})
	p.expect('}')
	if p.tok != scanner.EOF {
		p.errorf("unexpected %q after graph", p.s.TokenText())
	}
}

func (p *parser) stmts(sc *scope) {
	for p.tok != '}' && p.tok != scanner.EOF {
		p.stmt(sc)
		if p.tok == ';' || p.tok == ',' {
			p.next()
		}
	}
}

func (p *parser) stmt(sc *scope) {
	switch {
	case p.keyword("subgraph") || p.tok == '{':
		p.subgraph(sc)
		return
	case p.keyword("graph"):
		p.next()
		for k, v := range p.attrList() {
			sc.attrs[k] = v
		}
		return
	case p.keyword("node"), p.keyword("edge"):
		p.next()
		p.attrList()
		return
	}

	at := p.at()
	id := p.id()
	switch p.tok {
	case '=':
		p.next()
		sc.attrs[id] = p.id()
		return
	case '-':
		ends := []string{id}
		for p.tok == '-' {
			p.next()
			p.expect('>')
			ends = append(ends, p.id())
		}
		a := p.attrList()
		if sc.legend != "" {
			panic(bailout{at.fail(nil, "edge inside %s", sc.legend)})
		}
		for i := 0; i+1 < len(ends); i++ {
			p.doc.touch(ends[i], at)
			p.doc.touch(ends[i+1], at)
			p.doc.edges = append(p.doc.edges, edgeStmt{at: at, from: ends[i], to: ends[i+1], attrs: a})
		}
		return
	}

	a := p.attrList()
	if sc.legend != "" {
		p.doc.legends[sc.legend] = append(p.doc.legends[sc.legend], legendEntry{key: id, attrs: a})
		return
	}
	node := p.doc.touch(id, at)
	for k, v := range a {
		node[k] = v
	}
	if sc.zone != nil {
		sc.zone.members = append(sc.zone.members, id)
	}
}

func (p *parser) subgraph(outer *scope) {
	at := p.at()
	name := ""
	if p.keyword("subgraph") {
		p.next()
		if p.tok != '{' {
			name = p.id()
		}
	}
	inner := &scope{attrs: attrs{}, zone: outer.zone}
	switch {
	case name == legendRequirements || name == legendEffects || name == legendEquivalences:
		inner.legend = name
	case strings.HasPrefix(name, zonePrefix):
		inner.zone = &zoneStmt{at: at, name: strings.TrimPrefix(name, zonePrefix), attrs: inner.attrs}
		p.doc.zones = append(p.doc.zones, inner.zone)
	}
	p.expect('{')
	p.stmts(inner)
	p.expect('}')
}

func (p *parser) attrList() attrs {
	a := attrs{}
	for p.tok == '[' {
		p.next()
		for p.tok != ']' {
			k := p.id()
			p.expect('=')
			a[k] = p.id()
			if p.tok == ',' || p.tok == ';' {
				p.next()
			}
		}
		p.next()
	}
	return a
}

func (p *parser) id() string {
	text := p.s.TokenText()
	switch p.tok {
	case scanner.Ident, scanner.Int, scanner.Float:
		p.next()
		return text
	case scanner.String, scanner.RawString:
		s, err := strconv.Unquote(text)
		if err != nil {
			p.errorf("bad string %s", text)
		}
		p.next()
		return s
	case '-':
		p.next()
		if p.tok != scanner.Int && p.tok != scanner.Float {
			p.errorf("expected number after '-'")
		}
		text = "-" + p.s.TokenText()
		p.next()
		return text
	}
	p.errorf("expected identifier, found %q", text)
	return ""
}

func build(doc *document) (*graph.DecisionGraph, error) {
	g := graph.New()
	legend := func(name string) map[string]attrs {
		out := make(map[string]attrs)
		for _, e := range doc.legends[name] {
			out[e.key] = e.attrs
		}
		return out
	}
	reqs := legend(legendRequirements)
	effects := legend(legendEffects)

	marks := make(map[string][]string)
	for _, name := range doc.decisions {
		at := doc.nodePos[name]
		a := doc.nodeAttrs[name]
		tags, err := decodeTags(a)
		if err != nil {
			return nil, at.fail(err, "decision %q", name)
		}
		ann, err := decodeAnnotations(a)
		if err != nil {
			return nil, at.fail(err, "decision %q", name)
		}
		if err := g.AddDecision(name, tags, ann); err != nil {
			return nil, at.fail(err, "decision %q", name)
		}
		for k := range a {
			if zone, ok := strings.CutPrefix(k, zoneMarkPrefix); ok {
				marks[name] = append(marks[name], zone)
			}
		}
	}

	for _, z := range doc.zones {
		level := 0
		if text, ok := z.attrs["level"]; ok {
			n, err := strconv.Atoi(text)
			if err != nil {
				return nil, z.at.fail(err, "zone %q level", z.name)
			}
			level = n
		}
		if err := g.CreateZone(z.name, level); err != nil {
			return nil, z.at.fail(err, "zone %q", z.name)
		}
	}
	for _, z := range doc.zones {
		var parents []string
		if text, ok := z.attrs["parents"]; ok {
			if err := json.Unmarshal([]byte(text), &parents); err != nil {
				return nil, z.at.fail(err, "zone %q parents", z.name)
			}
		}
		for _, parent := range parents {
			if err := g.AddZoneToZone(z.name, parent); err != nil {
				return nil, z.at.fail(err, "zone %q", z.name)
			}
		}
		for _, d := range z.members {
			if err := g.AddDecisionToZone(d, z.name); err != nil {
				return nil, z.at.fail(err, "zone %q", z.name)
			}
		}
	}
	for _, name := range doc.decisions {
		for _, zone := range marks[name] {
			if !g.HasZone(zone) {
				if err := g.CreateZone(zone, 0); err != nil {
					return nil, doc.nodePos[name].fail(err, "decision %q", name)
				}
			}
			if err := g.AddDecisionToZone(name, zone); err != nil {
				return nil, doc.nodePos[name].fail(err, "decision %q", name)
			}
		}
	}

	for _, e := range doc.edges {
		name, ok := e.attrs["fullLabel"]
		if !ok {
			return nil, e.at.fail(nil, "edge %s -> %s has no fullLabel", e.from, e.to)
		}
		spec, err := transitionSpec(e.attrs, reqs, effects)
		if err != nil {
			return nil, e.at.fail(err, "transition %s/%s", e.from, name)
		}
		if err := g.AddTransition(e.from, name, e.to, spec); err != nil {
			return nil, e.at.fail(err, "transition %s/%s", e.from, name)
		}
	}
	for _, e := range doc.edges {
		rev, ok := e.attrs["reciprocal"]
		if !ok {
			continue
		}
		name := e.attrs["fullLabel"]
		if err := g.SetReciprocal(e.from, name, rev, graph.OneWay(), graph.NoCleanup()); err != nil {
			return nil, e.at.fail(err, "transition %s/%s", e.from, name)
		}
	}

	for _, entry := range doc.legends[legendEquivalences] {
		var alts []string
		if err := json.Unmarshal([]byte(entry.attrs["alternatives"]), &alts); err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("equivalences for %q", entry.key), Err: err}
		}
		for _, text := range alts {
			req, err := domain.ParseRequirement(text)
			if err != nil {
				return nil, &ParseError{Msg: fmt.Sprintf("equivalence for %q", entry.key), Err: err}
			}
			g.AddEquivalence(entry.key, req)
		}
	}

	if text, ok := doc.attrs["unknownCount"]; ok {
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, &ParseError{Msg: "unknownCount", Err: err}
		}
		g.SetUnknownCount(n)
	}
	return g, nil
}

func transitionSpec(a attrs, reqs, effects map[string]attrs) (graph.TransitionSpec, error) {
	var spec graph.TransitionSpec
	if key, ok := a["req"]; ok {
		entry, ok := reqs[key]
		if !ok {
			return spec, fmt.Errorf("unknown requirement key %q", key)
		}
		req, err := domain.ParseRequirement(entry["label"])
		if err != nil {
			return spec, err
		}
		spec.Requirement = req
	}
	if key, ok := a["effects"]; ok {
		entry, ok := effects[key]
		if !ok {
			return spec, fmt.Errorf("unknown effects key %q", key)
		}
		list, err := codec.DecodeEffects([]byte(entry["label"]))
		if err != nil {
			return spec, err
		}
		spec.Effects = list
	}
	tags, err := decodeTags(a)
	if err != nil {
		return spec, err
	}
	spec.Tags = tags
	spec.Annotations, err = decodeAnnotations(a)
	return spec, err
}

func decodeTags(a attrs) (domain.Tags, error) {
	tags := domain.Tags{}
	for k, text := range a {
		name, ok := strings.CutPrefix(k, tagPrefix)
		if !ok {
			continue
		}
		v, err := codec.Decode([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		tags[name] = v
	}
	return tags, nil
}

func decodeAnnotations(a attrs) ([]string, error) {
	text, ok := a["ann"]
	if !ok {
		return nil, nil
	}
	var notes []string
	if err := json.Unmarshal([]byte(text), &notes); err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}
	return notes, nil
}
