package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	dag "github.com/dominikbraun/graph"

	"github.com/gogpu/canal/effect"
)

// Edge connects a source node's output to a target node's input handle.
// Single-input targets have one handle, named "". Merge targets have
// handles named input-0 ... input-(n-1).
type Edge struct {
	ID           string
	Source       string
	SourceHandle string
	Target       string
	TargetHandle string
}

// EdgeID returns the id given to edges added without one.
func EdgeID(source, sourceHandle, target, targetHandle string) string {
	return fmt.Sprintf("edge__%s%s-%s%s", source, sourceHandle, target, targetHandle)
}

// AddEdge validates and adds an edge, returning it with its id filled in.
//
// The target handle must exist on the target and be free, and the edge must
// not close a cycle.
func (s *Store) AddEdge(e Edge) (Edge, error) {
	if e.Source == e.Target {
		return Edge{}, fmt.Errorf("%w: %q", ErrSelfLoop, e.Source)
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.SourceHandle, e.Target, e.TargetHandle)
	}

	s.mu.Lock()
	if err := s.validateEdgeLocked(e); err != nil {
		s.mu.Unlock()
		return Edge{}, err
	}
	s.edges[e.ID] = e
	s.mu.Unlock()

	s.notify([]Change{{Kind: EdgeAdded, NodeID: e.Target, Edge: e}})
	return e, nil
}

func (s *Store) validateEdgeLocked(e Edge) error {
	if _, ok := s.edges[e.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEdge, e.ID)
	}
	src, ok := s.nodes[e.Source]
	if !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownNode, e.Source)
	}
	tgt, ok := s.nodes[e.Target]
	if !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownNode, e.Target)
	}
	if !effect.HasSource(src.effect) {
		return fmt.Errorf("%w: %q (%s)", ErrNoSourceHandle, e.Source, src.effect.Kind())
	}
	if !slices.Contains(effect.TargetHandles(tgt.effect), e.TargetHandle) {
		return fmt.Errorf("%w: %q on %q (%s)", ErrInvalidHandle, e.TargetHandle, e.Target, tgt.effect.Kind())
	}
	for _, other := range s.edges {
		if other.Target == e.Target && other.TargetHandle == e.TargetHandle {
			return fmt.Errorf("%w: %q on %q", ErrHandleOccupied, e.TargetHandle, e.Target)
		}
	}

	cycle, err := s.createsCycleLocked(e.Source, e.Target)
	if err != nil {
		return fmt.Errorf("graph: cycle check: %w", err)
	}
	if cycle {
		return fmt.Errorf("%w: %q -> %q", ErrCycle, e.Source, e.Target)
	}
	return nil
}

// dagLocked builds the node-level dependency graph. Parallel edges between
// the same pair of nodes collapse into one.
func (s *Store) dagLocked() (dag.Graph[string, string], error) {
	g := dag.New(dag.StringHash, dag.Directed())
	for id := range s.nodes {
		if err := g.AddVertex(id); err != nil {
			return nil, fmt.Errorf("add vertex %s: %w", id, err)
		}
	}
	for _, e := range s.edges {
		if err := g.AddEdge(e.Source, e.Target); err != nil && !errors.Is(err, dag.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("add edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}

func (s *Store) createsCycleLocked(source, target string) (bool, error) {
	g, err := s.dagLocked()
	if err != nil {
		return false, err
	}
	return dag.CreatesCycle(g, source, target)
}

// RemoveEdge deletes an edge.
func (s *Store) RemoveEdge(id string) error {
	s.mu.Lock()
	e, ok := s.edges[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownEdge, id)
	}
	delete(s.edges, id)
	s.mu.Unlock()

	s.notify([]Change{{Kind: EdgeRemoved, NodeID: e.Target, Edge: e}})
	return nil
}

// Edges returns all edges ordered by id.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedEdgesLocked()
}

// EdgesTargeting returns the edges into node id, ordered by id.
func (s *Store) EdgesTargeting(id string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterEdgesLocked(func(e Edge) bool { return e.Target == id })
}

// EdgesFrom returns the edges out of node id, ordered by id.
func (s *Store) EdgesFrom(id string) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterEdgesLocked(func(e Edge) bool { return e.Source == id })
}

// TopologicalOrder returns node ids so that every edge points forward.
func (s *Store) TopologicalOrder() ([]string, error) {
	s.mu.RLock()
	g, err := s.dagLocked()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return dag.StableTopologicalSort(g, func(a, b string) bool { return a < b })
}

func (s *Store) sortedEdgesLocked() []Edge {
	return s.filterEdgesLocked(func(Edge) bool { return true })
}

func (s *Store) filterEdgesLocked(keep func(Edge) bool) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int { return strings.Compare(a.ID, b.ID) })
	return out
}
