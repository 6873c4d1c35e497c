// Package graph holds the node graph: nodes carrying an effect and their
// last committed output, and the edges feeding them.
//
// A [Store] is the single source of truth. External collaborators mutate it
// (add/remove nodes and edges, update effects) and read committed outputs;
// the propagation scheduler evaluates nodes through [Store.Begin] and writes
// results back through [Store.Commit]. Every accepted mutation and every
// changed output is announced to subscribers as a [Change].
//
// Edges that would close a cycle are rejected when added, so the graph is
// always a DAG and the recompute wavefront always terminates.
//
// Evaluation results are guarded by a per-node generation counter: Begin
// starts a new generation, and Commit discards results from any generation
// but the latest. A slow, superseded evaluation can therefore never
// overwrite a newer result.
package graph
