package propagate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/eval"
	"github.com/gogpu/canal/graph"
	"github.com/gogpu/canal/raster"
)

// Evaluator computes a node output from its effect and upstream.
// *eval.Evaluator implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, spec effect.Spec, up graph.Upstream) *eval.Result
}

// Stats counts what the scheduler has done since it was created.
type Stats struct {
	Triggered uint64 // evaluations started
	Committed uint64 // commits that changed an output
	Unchanged uint64 // commits skipped as equal to the current output
	Stale     uint64 // results discarded as superseded
}

// Scheduler re-evaluates nodes in response to store changes.
//
// Thread safety: All methods are safe for concurrent use. Wait must not be
// called concurrently with the mutations it is meant to wait for.
type Scheduler struct {
	store  *graph.Store
	eval   Evaluator
	arena  *raster.Arena
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()

	mu       sync.Mutex
	inflight map[string]*run
	closed   bool

	wg conc.WaitGroup

	triggered, committed, unchanged, stale atomic.Uint64
}

// run is one in-flight evaluation of a node.
type run struct {
	cancel context.CancelFunc
}

// New creates a scheduler driving store with ev and subscribes it to the
// store's changes. Nodes already in the store are not evaluated until they
// change or are passed to Trigger.
func New(store *graph.Store, ev Evaluator, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(o.ctx)
	s := &Scheduler{
		store:    store,
		eval:     ev,
		arena:    store.Arena(),
		logger:   o.logger,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]*run),
	}
	s.unsub = store.Subscribe(s.onChange)
	return s
}

// onChange maps a store change to the nodes it invalidates.
func (s *Scheduler) onChange(c graph.Change) {
	switch c.Kind {
	case graph.NodeAdded, graph.EffectUpdated:
		s.Trigger(c.NodeID)
	case graph.EdgeAdded, graph.EdgeRemoved:
		s.Trigger(c.Edge.Target)
	case graph.OutputCommitted:
		for _, e := range s.store.EdgesFrom(c.NodeID) {
			s.Trigger(e.Target)
		}
	case graph.NodeRemoved:
		s.abandon(c.NodeID)
	}
}

// Trigger re-evaluates node id, superseding any evaluation of it in flight.
// Unknown nodes are ignored.
func (s *Scheduler) Trigger(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Begin under s.mu keeps generations in trigger order.
	task, err := s.store.Begin(id)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("propagate: skip trigger", "node", id, "err", err)
		return
	}
	if prev := s.inflight[id]; prev != nil {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	r := &run{cancel: cancel}
	s.inflight[id] = r
	s.triggered.Add(1)
	s.wg.Go(func() {
		defer s.finish(id, r)
		s.execute(ctx, task)
	})
	s.mu.Unlock()
}

// TriggerAll re-evaluates every node in topological order.
func (s *Scheduler) TriggerAll() error {
	order, err := s.store.TopologicalOrder()
	if err != nil {
		return err
	}
	for _, id := range order {
		s.Trigger(id)
	}
	return nil
}

func (s *Scheduler) execute(ctx context.Context, task *graph.Task) {
	start := time.Now()
	res := s.eval.Evaluate(ctx, task.Effect, task.Upstream)
	task.Release()

	var (
		out  *raster.Raster
		dims raster.Dims
	)
	if res != nil {
		out, dims = res.Raster, res.Dims
		defer s.arena.Release(out)
	}

	if ctx.Err() != nil {
		s.stale.Add(1)
		s.logger.Debug("propagate: superseded",
			"node", task.NodeID,
			"generation", task.Generation)
		return
	}

	changed, err := s.store.Commit(task.NodeID, task.Generation, out, dims)
	switch {
	case errors.Is(err, graph.ErrStale):
		s.stale.Add(1)
		s.logger.Warn("propagate: stale result discarded",
			"node", task.NodeID,
			"generation", task.Generation)
	case err != nil:
		s.logger.Warn("propagate: commit failed", "node", task.NodeID, "err", err)
	case changed:
		s.committed.Add(1)
		s.logger.Debug("propagate: committed",
			"node", task.NodeID,
			"generation", task.Generation,
			"output", out != nil,
			"duration", time.Since(start))
	default:
		s.unchanged.Add(1)
	}
}

func (s *Scheduler) finish(id string, r *run) {
	r.cancel()
	s.mu.Lock()
	if s.inflight[id] == r {
		delete(s.inflight, id)
	}
	s.mu.Unlock()
}

// abandon cancels the evaluation of a removed node.
func (s *Scheduler) abandon(id string) {
	s.mu.Lock()
	if r := s.inflight[id]; r != nil {
		r.cancel()
		delete(s.inflight, id)
	}
	s.mu.Unlock()
}

// Pending returns the number of nodes with an evaluation in flight.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Wait blocks until no evaluation is in flight, including the downstream
// evaluations that finished ones trigger.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// WaitContext is like Wait but gives up when ctx is done.
func (s *Scheduler) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Triggered: s.triggered.Load(),
		Committed: s.committed.Load(),
		Unchanged: s.unchanged.Load(),
		Stale:     s.stale.Load(),
	}
}

// Close stops reacting to changes, cancels in-flight evaluations and waits
// for them to return. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.unsub()
	s.cancel()
	s.wg.Wait()
}
