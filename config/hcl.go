package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclPipelineFile is the top-level structure of an HCL pipeline document.
type hclPipelineFile struct {
	Version int        `hcl:"version"`
	Nodes   []*hclNode `hcl:"node,block"`
	Edges   []*hclEdge `hcl:"edge,block"`
}

// hclNode is a `node "<id>"` block. Everything besides effect belongs to
// the effect's parameters and is decoded once the kind is known.
type hclNode struct {
	ID     string   `hcl:"id,label"`
	Effect string   `hcl:"effect"`
	Body   hcl.Body `hcl:",remain"`
}

type hclEdge struct {
	From   string `hcl:"from"`
	To     string `hcl:"to"`
	Handle string `hcl:"handle,optional"`
}

// ParsePipelineHCL decodes an HCL pipeline document. filename is used in
// diagnostics; baseDir resolves relative File paths.
func ParsePipelineHCL(b []byte, filename, baseDir string) (*Pipeline, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(trimDoc(b), filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: failed to parse %s: %w", filename, diags)
	}

	var doc hclPipelineFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("config: failed to decode %s: %w", filename, diags)
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
			return nil, fmt.Errorf("config: node %q: %w", n.ID, err)
		}
		if diags := gohcl.DecodeBody(n.Body, nil, params); diags.HasErrors() {
			return nil, fmt.Errorf("config: node %q: %w", n.ID, diags)
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
