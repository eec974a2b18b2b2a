// Package codec is the structured JSON form of graphs, explorations and
// script values.
//
// Values with no JSON counterpart are written as objects carrying a kind
// under the "^" key: tuples, sets, dicts with non-text keys, decision graphs
// and explorations. Requirements are written in their textual form and edit
// effects as rendered command blocks. Decode dispatches on the "^" key.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
)

// Marshal encodes a *graph.DecisionGraph, an *exploration.Exploration or a
// script value.
func Marshal(v any) ([]byte, error) {
	var doc any
	var err error
	switch x := v.(type) {
	case *graph.DecisionGraph:
		doc, err = encodeGraph(x)
	case *exploration.Exploration:
		doc, err = encodeExploration(x)
	default:
		doc, err = encodeValue(v)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// MarshalIndent is Marshal with indented output.
func MarshalIndent(v any) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode reverses Marshal. The result is a *graph.DecisionGraph, an
// *exploration.Exploration (built with opts) or a script value.
func Decode(data []byte, opts ...exploration.Option) (any, error) {
	var probe struct {
		Kind string `json:"^"`
	}
	_ = json.Unmarshal(data, &probe)
	switch probe.Kind {
	case kindGraph:
		return DecodeGraph(data)
	case kindExploration:
		return DecodeExploration(data, opts...)
	}
	var raw any
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return decodeValue(raw)
}

// DecodeGraph decodes a graph written by Marshal.
func DecodeGraph(data []byte) (*graph.DecisionGraph, error) {
	var doc graphDoc
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != kindGraph {
		return nil, fmt.Errorf("expected %q, got %q", kindGraph, doc.Kind)
	}
	return decodeGraph(doc)
}

// DecodeExploration decodes an exploration written by Marshal.
func DecodeExploration(data []byte, opts ...exploration.Option) (*exploration.Exploration, error) {
	var doc explorationDoc
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != kindExploration {
		return nil, fmt.Errorf("expected %q, got %q", kindExploration, doc.Kind)
	}
	return decodeExploration(doc, opts...)
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// MarshalEffects encodes an effect list in the form transitions carry it.
func MarshalEffects(effects []domain.Effect) ([]byte, error) {
	docs := make([]effectDoc, 0, len(effects))
	for _, e := range effects {
		doc, err := encodeEffect(e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return json.Marshal(docs)
}

// DecodeEffects reverses MarshalEffects.
func DecodeEffects(data []byte) ([]domain.Effect, error) {
	var docs []effectDoc
	if err := unmarshal(data, &docs); err != nil {
		return nil, err
	}
	effects := make([]domain.Effect, 0, len(docs))
	for i, doc := range docs {
		e, err := decodeEffect(doc)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		effects = append(effects, e)
	}
	return effects, nil
}
