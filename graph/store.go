package graph

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/raster"
)

// State is the evaluation state of a node.
type State uint8

const (
	// Idle nodes have never been evaluated.
	Idle State = iota

	// Evaluating nodes have an evaluation in flight newer than their output.
	Evaluating

	// Committed nodes hold the result of their latest evaluation, which may
	// be no output at all.
	Committed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Evaluating:
		return "Evaluating"
	case Committed:
		return "Committed"
	default:
		return "Idle"
	}
}

// Node is a read-only snapshot of a node.
//
// Output is only valid while the snapshot's holder can be sure the node is
// not re-committed; use [Store.AcquireOutput] to keep it alive.
type Node struct {
	ID        string
	Effect    effect.Spec
	Output    *raster.Raster // nil until a successful evaluation
	Dims      raster.Dims    // zero whenever Output is nil
	HasSource bool
	HasTarget bool
	State     State
}

type node struct {
	id     string
	effect effect.Spec
	output *raster.Raster
	dims   raster.Dims

	gen       uint64 // latest started evaluation
	committed uint64 // generation of the latest commit
}

func (n *node) view() Node {
	v := Node{
		ID:        n.id,
		Effect:    n.effect,
		Output:    n.output,
		Dims:      n.dims,
		HasSource: effect.HasSource(n.effect),
		HasTarget: effect.HasTarget(n.effect),
	}
	switch {
	case n.gen == 0:
		v.State = Idle
	case n.committed < n.gen:
		v.State = Evaluating
	default:
		v.State = Committed
	}
	return v
}

// Store holds nodes and edges.
//
// Thread safety: All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*node
	edges map[string]Edge
	arena *raster.Arena

	subs    []subscription
	nextSub int
}

// NewStore creates an empty store whose outputs are reference counted in
// arena. A nil arena gets a private one.
func NewStore(arena *raster.Arena) *Store {
	if arena == nil {
		arena = raster.NewArena(raster.NewPool(0), 0)
	}
	return &Store{
		nodes: make(map[string]*node),
		edges: make(map[string]Edge),
		arena: arena,
	}
}

// Arena returns the arena holding committed outputs.
func (s *Store) Arena() *raster.Arena {
	return s.arena
}

// AddNode adds a node with the given effect. The effect is normalized.
func (s *Store) AddNode(id string, spec effect.Spec) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if spec == nil {
		return ErrNilEffect
	}

	s.mu.Lock()
	if _, ok := s.nodes[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}
	s.nodes[id] = &node{id: id, effect: effect.Normalize(spec)}
	s.mu.Unlock()

	s.notify([]Change{{Kind: NodeAdded, NodeID: id}})
	return nil
}

// DuplicateNode adds newID with a copy of id's effect. The output is not
// copied; the duplicate computes its own.
func (s *Store) DuplicateNode(id, newID string) error {
	s.mu.RLock()
	n, ok := s.nodes[id]
	var spec effect.Spec
	if ok {
		spec = n.effect
	}
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return s.AddNode(newID, spec)
}

// RemoveNode deletes a node, every edge touching it and its output.
func (s *Store) RemoveNode(id string) error {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	var changes []Change
	for _, e := range s.sortedEdgesLocked() {
		if e.Source == id || e.Target == id {
			delete(s.edges, e.ID)
			changes = append(changes, Change{Kind: EdgeRemoved, NodeID: e.Target, Edge: e})
		}
	}
	delete(s.nodes, id)
	output := n.output
	s.mu.Unlock()

	s.arena.Release(output)
	s.notify(append(changes, Change{Kind: NodeRemoved, NodeID: id}))
	return nil
}

// UpdateEffect replaces a node's effect parameters. The kind must stay the
// same. Shrinking a Merge drops the edges on the removed handles.
func (s *Store) UpdateEffect(id string, spec effect.Spec) error {
	if spec == nil {
		return ErrNilEffect
	}
	spec = effect.Normalize(spec)

	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if n.effect.Kind() != spec.Kind() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrKindChange, n.effect.Kind(), spec.Kind())
	}
	n.effect = spec

	var changes []Change
	if m, isMerge := spec.(effect.Merge); isMerge {
		for _, e := range s.sortedEdgesLocked() {
			if e.Target != id {
				continue
			}
			if i, ok := effect.ParseMergeHandle(e.TargetHandle); !ok || i >= m.InputCount {
				delete(s.edges, e.ID)
				changes = append(changes, Change{Kind: EdgeRemoved, NodeID: id, Edge: e})
			}
		}
	}
	s.mu.Unlock()

	s.notify(append(changes, Change{Kind: EffectUpdated, NodeID: id}))
	return nil
}

// Node returns a snapshot of a node.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.view(), true
}

// Nodes returns snapshots of all nodes ordered by id.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n.view())
	}
	slices.SortFunc(out, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
