// Package place is the core placement optimization engine: it assigns the
// vertices of a weighted hypergraph onto the servers of a capacity-constrained
// network so as to minimize the total Steiner-tree communication cost.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - hypergraph.go: Vertex, Hyperedge and Hypergraph (adjacency, merge/split)
//   - network.go: server topology and Steiner-tree cost computation
//   - state.go: OptimizerState, the cost/gain cache every search runs against
//
// # Architecture
//
// A Distribution bundles hypergraph + placement + network. Searches never
// touch the Placement directly; they go through an OptimizerState, which keeps
// the per-hyperedge cost cache, the server occupancy counters and the bounded
// Steiner memo consistent with every move.
//
// Two searches are provided:
//   - Refine: capacity repair followed by label-propagation rounds over the
//     frontier, with compensating swaps into full servers (refine.go)
//   - Anneal: simulated annealing with a T0/(i+1) cooling schedule (anneal.go)
//
// Structural rewrites of the hypergraph (merging and splitting hyperedges)
// are in edit.go; they keep the cost cache consistent without a full
// recomputation.
//
// All randomness flows from a single seedable PartitionedRNG (rng.go), so
// runs are reproducible end-to-end. The engine is single-threaded and does
// no I/O; problem files are loaded by the place/problem sub-package.
package place
