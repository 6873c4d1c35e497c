package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlPipeline struct {
	Version int        `yaml:"version"`
	Nodes   []yamlNode `yaml:"nodes"`
	Edges   []yamlEdge `yaml:"edges"`
}

type yamlNode struct {
	ID     string    `yaml:"id"`
	Effect string    `yaml:"effect"`
	Params yaml.Node `yaml:"params"`
}

type yamlEdge struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Handle string `yaml:"handle"`
}

// ParsePipelineYAML decodes a YAML pipeline document. baseDir resolves
// relative File paths.
func ParsePipelineYAML(b []byte, baseDir string) (*Pipeline, error) {
	dec := yaml.NewDecoder(bytes.NewReader(trimDoc(b)))
	dec.KnownFields(true)

	var doc yamlPipeline
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if doc.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}

	p := &Pipeline{
		Nodes: make([]Node, 0, len(doc.Nodes)),
		Edges: make([]Edge, 0, len(doc.Edges)),
	}
	for _, n := range doc.Nodes {
		params, err := newParams(n.Effect)
		if err != nil {
			return nil, fmt.Errorf("config: node %q (line %d): %w", n.ID, n.Params.Line, err)
		}
		if err := decodeYAMLParams(&n.Params, params); err != nil {
			return nil, fmt.Errorf("config: node %q: %w", n.ID, err)
		}
		p.Nodes = append(p.Nodes, Node{ID: n.ID, Effect: params.spec(baseDir)})
	}
	for _, e := range doc.Edges {
		p.Edges = append(p.Edges, Edge{From: e.From, To: e.To, Handle: edgeHandle(e.Handle)})
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// decodeYAMLParams decodes a params mapping, rejecting keys the kind does
// not have. yaml.Node.Decode has no strict mode, so the mapping goes through
// a strict decoder.
func decodeYAMLParams(node *yaml.Node, into params) error {
	if node.IsZero() || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: params must be a mapping (line %d)", ErrInvalid, node.Line)
	}
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
