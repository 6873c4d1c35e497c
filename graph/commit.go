package graph

import (
	"fmt"
	"sync"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/raster"
)

// Task is a started evaluation: a consistent snapshot of a node's effect and
// upstream, taken under one lock. The upstream outputs are retained until
// Release, so they stay valid even if their nodes re-commit meanwhile.
type Task struct {
	NodeID     string
	Generation uint64
	Effect     effect.Spec
	Upstream   Upstream

	arena   *raster.Arena
	release sync.Once
}

// Release drops the task's references on its upstream outputs. It is safe to
// call more than once.
func (t *Task) Release() {
	t.release.Do(func() {
		for _, r := range t.Upstream {
			if r != nil {
				t.arena.Release(r.Output)
			}
		}
	})
}

// Begin starts a new evaluation generation for node id, superseding any
// evaluation in flight.
func (s *Store) Begin(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	n.gen++
	t := &Task{
		NodeID:     id,
		Generation: n.gen,
		Effect:     n.effect,
		Upstream:   s.resolveLocked(n),
		arena:      s.arena,
	}
	for _, r := range t.Upstream {
		if r != nil {
			s.arena.Retain(r.Output)
		}
	}
	return t, nil
}

// Commit writes an evaluation result back to node id. A nil output clears
// the node's output and dims together.
//
// The result is discarded with ErrStale unless gen is the node's latest
// generation. It reports whether the committed output changed: a result
// equal to the current one (same raster, or same pixels, with the same dims)
// leaves the node untouched and announces nothing.
//
// The store takes its own reference on output; the caller keeps its own.
func (s *Store) Commit(id string, gen uint64, output *raster.Raster, dims raster.Dims) (bool, error) {
	if output == nil {
		dims = raster.Dims{}
	}

	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok || n.gen != gen {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: node %q generation %d", ErrStale, id, gen)
	}
	n.committed = gen

	if n.dims == dims && (n.output == output || raster.Equal(n.output, output)) {
		s.mu.Unlock()
		return false, nil
	}

	old := n.output
	s.arena.Retain(output)
	n.output = output
	n.dims = dims
	s.mu.Unlock()

	s.arena.Release(old)
	s.notify([]Change{{Kind: OutputCommitted, NodeID: id}})
	return true, nil
}

// AcquireOutput returns node id's committed output with a reference held for
// the caller, who must call release when done. It reports false when the node
// does not exist or has no output.
func (s *Store) AcquireOutput(id string) (out *raster.Raster, dims raster.Dims, release func(), ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, found := s.nodes[id]
	if !found || n.output == nil {
		return nil, raster.Dims{}, func() {}, false
	}
	out = n.output
	s.arena.Retain(out)

	var once sync.Once
	return out, n.dims, func() { once.Do(func() { s.arena.Release(out) }) }, true
}
