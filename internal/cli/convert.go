package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/journey/internal/presentation/mermaid"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/format/dot"
	"github.com/aretw0/journey/pkg/graph"
)

// Graph file formats.
const (
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// DetectFormat guesses a graph format from a file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".mmd", ".mermaid":
		return FormatMermaid, nil
	}
	return "", fmt.Errorf("cannot tell the format of %q; pass it explicitly", path)
}

// ReadGraph decodes a JSON or DOT decision graph.
func ReadGraph(r io.Reader, format string) (*graph.DecisionGraph, error) {
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return codec.DecodeGraph(data)
	case FormatDOT:
		return dot.Parse(r)
	}
	return nil, fmt.Errorf("cannot read %s graphs", format)
}

// WriteGraph encodes g in any supported format.
func WriteGraph(w io.Writer, g *graph.DecisionGraph, format string) error {
	switch format {
	case FormatJSON:
		data, err := codec.MarshalIndent(g)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatDOT:
		return dot.Render(w, g)
	case FormatMermaid:
		_, err := io.WriteString(w, mermaid.Generate(g, nil))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// Convert reads a graph in one format and writes it in another.
func Convert(r io.Reader, w io.Writer, from, to string) error {
	g, err := ReadGraph(r, from)
	if err != nil {
		return err
	}
	return WriteGraph(w, g, to)
}
