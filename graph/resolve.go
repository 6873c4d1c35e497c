package graph

import (
	"fmt"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/raster"
)

// Ref is a resolved upstream connection.
type Ref struct {
	NodeID string
	Edge   Edge
	Output *raster.Raster // nil when the upstream has nothing committed
	Dims   raster.Dims
}

// Upstream lists the inputs of a node by handle index. Single-input nodes
// have one slot, Merge nodes one per input handle, File and Text none. A slot
// is nil when no edge targets its handle.
type Upstream []*Ref

// Single returns the only input of a single-input node, or nil.
func (u Upstream) Single() *Ref {
	if len(u) == 0 {
		return nil
	}
	return u[0]
}

// Connected returns the number of slots with an edge.
func (u Upstream) Connected() int {
	n := 0
	for _, r := range u {
		if r != nil {
			n++
		}
	}
	return n
}

// Resolve returns the upstream references of node id.
func (s *Store) Resolve(id string) (Upstream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return s.resolveLocked(n), nil
}

func (s *Store) resolveLocked(n *node) Upstream {
	handles := effect.TargetHandles(n.effect)
	if len(handles) == 0 {
		return nil
	}
	slot := make(map[string]int, len(handles))
	for i, h := range handles {
		slot[h] = i
	}

	up := make(Upstream, len(handles))
	// Edges come sorted by id, so when a handle has several edges the
	// lowest id wins.
	for _, e := range s.filterEdgesLocked(func(e Edge) bool { return e.Target == n.id }) {
		i, ok := slot[e.TargetHandle]
		if !ok || up[i] != nil {
			continue
		}
		ref := &Ref{NodeID: e.Source, Edge: e}
		if src, ok := s.nodes[e.Source]; ok && src.output != nil {
			ref.Output = src.output
			ref.Dims = src.dims
		}
		up[i] = ref
	}
	return up
}
