package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/canal"
	"github.com/gogpu/canal/effect"
)

// Pipeline is a decoded pipeline document.
type Pipeline struct {
	Nodes []Node
	Edges []Edge
}

// Node is one node of a pipeline document.
type Node struct {
	ID     string
	Effect effect.Spec
}

// Edge connects From's output to To's Handle.
type Edge struct {
	From   string
	To     string
	Handle string
}

// LoadPipeline reads a pipeline document, choosing YAML or HCL by file
// extension. Relative File paths are resolved against the document's
// directory.
func LoadPipeline(path string) (*Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(path)

	var p *Pipeline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = ParsePipelineYAML(b, baseDir)
	case ".hcl":
		p, err = ParsePipelineHCL(b, path, baseDir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// validate checks what a document can get wrong before it reaches an
// engine.
func (p *Pipeline) validate() error {
	seen := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node without id", ErrInvalid)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalid, n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range p.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("%w: edge %s -> %s names an unknown node", ErrInvalid, e.From, e.To)
		}
	}
	return nil
}

// Apply adds the pipeline's nodes, then its edges, to eng.
func (p *Pipeline) Apply(eng *canal.Engine) error {
	for _, n := range p.Nodes {
		if err := eng.AddNode(n.ID, n.Effect); err != nil {
			return fmt.Errorf("config: node %q: %w", n.ID, err)
		}
	}
	var errs []error
	for _, e := range p.Edges {
		if _, err := eng.Connect(e.From, e.To, e.Handle); err != nil {
			errs = append(errs, fmt.Errorf("config: edge %s -> %s%s: %w", e.From, e.To, e.Handle, err))
		}
	}
	return errors.Join(errs...)
}

// Exports returns the ids of the pipeline's Export nodes.
func (p *Pipeline) Exports() []string {
	var ids []string
	for _, n := range p.Nodes {
		if n.Effect.Kind() == effect.KindExport {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// edgeHandle accepts a merge input as either its handle name or its index.
func edgeHandle(h string) string {
	if h == "" {
		return ""
	}
	if _, ok := effect.ParseMergeHandle(h); ok {
		return h
	}
	if i, err := strconv.Atoi(h); err == nil && i >= 0 {
		return effect.MergeHandle(i)
	}
	return h
}

// trimDoc drops a UTF-8 byte order mark.
func trimDoc(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
