// Package propagate keeps a graph's committed outputs in step with its
// effects and edges.
//
// A [Scheduler] listens to a [graph.Store]. Whenever a node's effect, its
// incoming edges or one of its upstream outputs changes, the node is
// re-evaluated and the result is committed back to the store, which in turn
// triggers the nodes downstream of it. A chain of nodes therefore settles
// one hop at a time until every output reflects the current graph.
//
// Each trigger starts a new evaluation generation for its node. Older
// evaluations of the same node have their context cancelled, and should
// one finish anyway its commit is refused by the store, so the last
// trigger always wins.
package propagate
