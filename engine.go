package canal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/eval"
	"github.com/gogpu/canal/graph"
	"github.com/gogpu/canal/propagate"
	"github.com/gogpu/canal/raster"
)

// Engine is a compositing graph whose outputs are kept up to date in the
// background.
//
// Mutations take effect immediately; the evaluations they cause run
// asynchronously. Call Wait to block until the graph has settled.
//
// Thread safety: All methods are safe for concurrent use.
type Engine struct {
	store  *graph.Store
	eval   *eval.Evaluator
	sched  *propagate.Scheduler
	arena  *raster.Arena
	logger *slog.Logger

	closed atomic.Bool
}

// Stats describes engine activity.
type Stats struct {
	Nodes       int    // nodes in the graph
	Edges       int    // edges in the graph
	LiveRasters int    // rasters referenced by outputs, caches and evaluations
	Evaluations uint64 // evaluations started
	Commits     uint64 // evaluations that changed an output
	Stale       uint64 // evaluations superseded before they could commit
	DecodeHits  uint64 // File evaluations served from the decode cache
	DecodeMiss  uint64 // File evaluations that decoded their source
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	arena := raster.NewArena(raster.NewPool(o.poolSize), o.maxSurface)
	store := graph.NewStore(arena)
	ev := eval.New(arena,
		eval.WithLogger(logger.With("component", "eval")),
		eval.WithDecodeCacheSize(o.decodeCacheSize))

	e := &Engine{
		store:  store,
		eval:   ev,
		arena:  arena,
		logger: logger,
	}
	e.sched = propagate.New(store, ev,
		propagate.WithLogger(logger.With("component", "propagate")))
	return e
}

// Store returns the underlying graph store.
func (e *Engine) Store() *graph.Store {
	return e.store
}

// AddNode adds a node carrying spec. The node is evaluated right away.
func (e *Engine) AddNode(id string, spec effect.Spec) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.store.AddNode(id, spec)
}

// AddDefaultNode adds a node carrying the default effect of kind.
func (e *Engine) AddDefaultNode(id string, kind effect.Kind) error {
	spec, err := effect.Default(kind)
	if err != nil {
		return err
	}
	return e.AddNode(id, spec)
}

// DuplicateNode adds newID with a copy of id's effect. Edges and output are
// not copied.
func (e *Engine) DuplicateNode(id, newID string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.store.DuplicateNode(id, newID)
}

// RemoveNode removes a node and its edges. Nodes it fed lose their input.
func (e *Engine) RemoveNode(id string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.store.RemoveNode(id)
}

// UpdateEffect replaces a node's effect parameters.
func (e *Engine) UpdateEffect(id string, spec effect.Spec) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.store.UpdateEffect(id, spec)
}

// Connect feeds source's output into target's handle. Single-input effects
// have one handle, "". Merge handles are named by [effect.MergeHandle].
func (e *Engine) Connect(source, target, targetHandle string) (graph.Edge, error) {
	return e.AddEdge(graph.Edge{Source: source, Target: target, TargetHandle: targetHandle})
}

// AddEdge adds an edge, filling in its id when empty.
func (e *Engine) AddEdge(edge graph.Edge) (graph.Edge, error) {
	if e.closed.Load() {
		return graph.Edge{}, ErrClosed
	}
	return e.store.AddEdge(edge)
}

// RemoveEdge removes an edge by id.
func (e *Engine) RemoveEdge(id string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.store.RemoveEdge(id)
}

// Node returns a snapshot of a node.
func (e *Engine) Node(id string) (graph.Node, bool) {
	return e.store.Node(id)
}

// Nodes returns snapshots of all nodes, ordered by id.
func (e *Engine) Nodes() []graph.Node {
	return e.store.Nodes()
}

// Edges returns all edges, ordered by id.
func (e *Engine) Edges() []graph.Edge {
	return e.store.Edges()
}

// Output returns a node's committed output and reported dims. The raster
// stays valid until release is called. ok is false when the node does not
// exist or has no output.
func (e *Engine) Output(id string) (out *raster.Raster, dims raster.Dims, release func(), ok bool) {
	return e.store.AcquireOutput(id)
}

// Refresh re-evaluates every node, upstream first.
func (e *Engine) Refresh() error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.sched.TriggerAll()
}

// Wait blocks until no evaluation is in flight.
func (e *Engine) Wait() {
	e.sched.Wait()
}

// WaitContext is like Wait but gives up when ctx is done.
func (e *Engine) WaitContext(ctx context.Context) error {
	return e.sched.WaitContext(ctx)
}

// Export encodes the output of Export node id to w using the node's format
// and quality. It returns the format actually written, which is PNG for
// webp requests.
func (e *Engine) Export(ctx context.Context, id string, w io.Writer) (string, error) {
	n, ok := e.store.Node(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", graph.ErrUnknownNode, id)
	}
	spec, ok := n.Effect.(effect.Export)
	if !ok {
		return "", fmt.Errorf("%w: %q is %s", ErrNotExport, id, n.Effect.Kind())
	}

	out, _, release, ok := e.store.AcquireOutput(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoOutput, id)
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	written, err := raster.Encode(w, out, string(spec.Format), spec.Quality)
	if err != nil {
		return "", fmt.Errorf("canal: export %q: %w", id, err)
	}
	if written != string(spec.Format) {
		e.logger.Warn("canal: export format substituted",
			"node", id,
			"requested", spec.Format,
			"written", written)
	}
	e.logger.Info("canal: exported",
		"node", id,
		"format", written,
		"width", out.Width(),
		"height", out.Height(),
		"duration", time.Since(start))
	return written, nil
}

// ExportFileName returns the file name an Export node is saved under: its
// FileName, or "export-<unix millis>" when empty, with the extension of the
// format Export writes.
func ExportFileName(spec effect.Export, now time.Time) string {
	name := spec.FileName
	if name == "" {
		name = "export-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	format := string(effect.Normalize(spec).(effect.Export).Format)
	if format == raster.FormatWebP {
		format = raster.FormatPNG
	}
	return name + "." + raster.Extension(format)
}

// Stats returns engine activity counters.
func (e *Engine) Stats() Stats {
	ss := e.sched.Stats()
	cs := e.eval.DecodeCacheStats()
	return Stats{
		Nodes:       e.store.Len(),
		Edges:       len(e.store.Edges()),
		LiveRasters: e.arena.Live(),
		Evaluations: ss.Triggered,
		Commits:     ss.Committed,
		Stale:       ss.Stale,
		DecodeHits:  cs.Hits,
		DecodeMiss:  cs.Misses,
	}
}

// Close stops background evaluation and releases cached decodes. Committed
// outputs stay readable. Close is safe to call more than once.
func (e *Engine) Close() {
	if e.closed.Swap(true) {
		return
	}
	e.sched.Close()
	e.eval.Close()
	e.logger.Info("canal: engine closed", "nodes", e.store.Len())
}
