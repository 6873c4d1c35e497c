package graph

import (
	"errors"
	"image/color"
	"reflect"
	"sync"
	"testing"

	"github.com/gogpu/canal/effect"
	"github.com/gogpu/canal/raster"
)

// newTestRaster returns a solid raster that is not tracked by any arena.
func newTestRaster(t *testing.T, w, h int, c color.NRGBA) *raster.Raster {
	t.Helper()
	r, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.SetNRGBA(x, y, c)
		}
	}
	return r
}

// recorder collects changes.
type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) listen(c Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

func (r *recorder) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChangeKind, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Kind
	}
	return out
}

func mustAdd(t *testing.T, s *Store, id string, spec effect.Spec) {
	t.Helper()
	if err := s.AddNode(id, spec); err != nil {
		t.Fatalf("AddNode(%q): %v", id, err)
	}
}

func mustConnect(t *testing.T, s *Store, src, dst, handle string) Edge {
	t.Helper()
	e, err := s.AddEdge(Edge{Source: src, Target: dst, TargetHandle: handle})
	if err != nil {
		t.Fatalf("AddEdge(%s -> %s%s): %v", src, dst, handle, err)
	}
	return e
}

func TestAddNode(t *testing.T) {
	s := NewStore(nil)
	mustAdd(t, s, "a", effect.Blur{Amount: -5})

	n, ok := s.Node("a")
	if !ok {
		t.Fatal("node a missing")
	}
	if b := n.Effect.(effect.Blur); b.Amount != 0 {
		t.Errorf("effect not normalized: %+v", b)
	}
	if !n.HasSource || !n.HasTarget || n.State != Idle || n.Output != nil {
		t.Errorf("unexpected snapshot %+v", n)
	}

	tests := []struct {
		name string
		id   string
		spec effect.Spec
		want error
	}{
		{"duplicate", "a", effect.Null{}, ErrDuplicateNode},
		{"empty id", " ", effect.Null{}, ErrEmptyID},
		{"nil effect", "b", nil, ErrNilEffect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddNode(tt.id, tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("AddNode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddEdgeValidation(t *testing.T) {
	s := NewStore(nil)
	mustAdd(t, s, "file", effect.File{})
	mustAdd(t, s, "text", effect.Text{Text: "x"})
	mustAdd(t, s, "blur", effect.Blur{})
	mustAdd(t, s, "merge", effect.Merge{InputCount: 2})
	mustAdd(t, s, "export", effect.Export{})
	mustConnect(t, s, "file", "blur", "")

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"self loop", Edge{Source: "blur", Target: "blur"}, ErrSelfLoop},
		{"unknown source", Edge{Source: "nope", Target: "blur"}, ErrUnknownNode},
		{"unknown target", Edge{Source: "file", Target: "nope"}, ErrUnknownNode},
		{"export has no output", Edge{Source: "export", Target: "merge", TargetHandle: "input-0"}, ErrNoSourceHandle},
		{"file has no input", Edge{Source: "blur", Target: "file"}, ErrInvalidHandle},
		{"merge handle out of range", Edge{Source: "file", Target: "merge", TargetHandle: "input-2"}, ErrInvalidHandle},
		{"single input named handle", Edge{Source: "text", Target: "export", TargetHandle: "input-0"}, ErrInvalidHandle},
		{"handle occupied", Edge{Source: "text", Target: "blur"}, ErrHandleOccupied},
		{"duplicate id", Edge{ID: EdgeID("file", "", "blur", ""), Source: "text", Target: "export"}, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddEdgeRejectsCycle(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		mustAdd(t, s, id, effect.Null{})
	}
	mustAdd(t, s, "m", effect.Merge{InputCount: 2})
	mustConnect(t, s, "a", "b", "")
	mustConnect(t, s, "b", "c", "")

	if _, err := s.AddEdge(Edge{Source: "c", Target: "a"}); !errors.Is(err, ErrCycle) {
		t.Errorf("closing edge error = %v, want ErrCycle", err)
	}

	// Two edges between the same pair are fine; a back edge is not.
	mustConnect(t, s, "c", "m", "input-0")
	mustConnect(t, s, "c", "m", "input-1")
	mustAdd(t, s, "d", effect.Null{})
	mustConnect(t, s, "m", "d", "")
	if _, err := s.AddEdge(Edge{Source: "d", Target: "b"}); !errors.Is(err, ErrHandleOccupied) {
		t.Errorf("occupied handle checked before cycle: %v", err)
	}

	order, err := s.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c", "m", "d"}; !reflect.DeepEqual(order, want) {
		t.Errorf("TopologicalOrder() = %v, want %v", order, want)
	}
}

func TestRemoveNodeDropsEdgesAndOutput(t *testing.T) {
	arena := raster.NewArena(raster.NewPool(0), 0)
	s := NewStore(arena)
	mustAdd(t, s, "a", effect.Null{})
	mustAdd(t, s, "b", effect.Null{})
	mustAdd(t, s, "c", effect.Null{})
	mustConnect(t, s, "a", "b", "")
	mustConnect(t, s, "b", "c", "")

	task, _ := s.Begin("b")
	task.Release()
	out := newTestRaster(t, 2, 2, color.NRGBA{A: 255})
	if _, err := s.Commit("b", task.Generation, out, raster.DimsOf(out)); err != nil {
		t.Fatal(err)
	}
	if arena.Refs(out) != 1 {
		t.Fatalf("Refs = %d, want 1", arena.Refs(out))
	}

	rec := &recorder{}
	s.Subscribe(rec.listen)
	if err := s.RemoveNode("b"); err != nil {
		t.Fatal(err)
	}
	if len(s.Edges()) != 0 {
		t.Errorf("edges left: %v", s.Edges())
	}
	if arena.Refs(out) != 0 {
		t.Errorf("output still referenced: %d", arena.Refs(out))
	}
	if want := []ChangeKind{EdgeRemoved, EdgeRemoved, NodeRemoved}; !reflect.DeepEqual(rec.kinds(), want) {
		t.Errorf("changes = %v, want %v", rec.kinds(), want)
	}
	if err := s.RemoveNode("b"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("second remove error = %v", err)
	}
}

func TestUpdateEffect(t *testing.T) {
	s := NewStore(nil)
	mustAdd(t, s, "src", effect.Null{})
	mustAdd(t, s, "m", effect.Merge{InputCount: 3})
	mustConnect(t, s, "src", "m", "input-0")
	mustAdd(t, s, "src2", effect.Null{})
	mustConnect(t, s, "src2", "m", "input-2")

	if err := s.UpdateEffect("m", effect.Blur{}); !errors.Is(err, ErrKindChange) {
		t.Errorf("kind change error = %v", err)
	}
	if err := s.UpdateEffect("nope", effect.Null{}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown node error = %v", err)
	}

	rec := &recorder{}
	s.Subscribe(rec.listen)
	if err := s.UpdateEffect("m", effect.Merge{InputCount: 2}); err != nil {
		t.Fatal(err)
	}
	if got := s.EdgesTargeting("m"); len(got) != 1 || got[0].TargetHandle != "input-0" {
		t.Errorf("edges after shrink = %v", got)
	}
	if want := []ChangeKind{EdgeRemoved, EffectUpdated}; !reflect.DeepEqual(rec.kinds(), want) {
		t.Errorf("changes = %v, want %v", rec.kinds(), want)
	}
}

func TestDuplicateNode(t *testing.T) {
	s := NewStore(nil)
	mustAdd(t, s, "a", effect.Opacity{Opacity: 0.25})
	task, _ := s.Begin("a")
	out := newTestRaster(t, 1, 1, color.NRGBA{A: 255})
	if _, err := s.Commit("a", task.Generation, out, raster.DimsOf(out)); err != nil {
		t.Fatal(err)
	}

	if err := s.DuplicateNode("a", "b"); err != nil {
		t.Fatal(err)
	}
	b, _ := s.Node("b")
	if b.Effect != (effect.Opacity{Opacity: 0.25}) {
		t.Errorf("duplicate effect = %+v", b.Effect)
	}
	if b.Output != nil || b.State != Idle {
		t.Error("duplicate should not copy the output")
	}
	if err := s.DuplicateNode("zz", "c"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("duplicate unknown error = %v", err)
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := NewStore(nil)
	rec := &recorder{}
	cancel := s.Subscribe(rec.listen)
	mustAdd(t, s, "a", effect.Null{})
	cancel()
	mustAdd(t, s, "b", effect.Null{})
	if want := []ChangeKind{NodeAdded}; !reflect.DeepEqual(rec.kinds(), want) {
		t.Errorf("changes = %v, want %v", rec.kinds(), want)
	}
}
