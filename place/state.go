package place

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OptimizerState owns a Distribution's placement together with every cache
// derived from it: per-server anchor occupancy, per-hyperedge cost, and the
// memo of Steiner-tree costs keyed by server subset. All searches mutate the
// placement exclusively through this type, which is what keeps the caches
// consistent with the authoritative placement after any sequence of moves.
//
// The same gain value is typically needed many times during a search, and
// each fresh computation solves a Steiner-tree problem, so the memo pays for
// itself quickly. Its memory is bounded by cacheLimit: only server subsets
// of at most that cardinality are stored, larger subsets are recomputed on
// demand.
//
// Not safe for concurrent use. Every search is single-threaded by design.
type OptimizerState struct {
	dist       *Distribution
	occupancy  map[Server]int
	edgeCost   map[string]int
	steiner    map[string]int
	cacheLimit int
	frozen     bool

	// steinerComputations counts actual tree computations (memo misses and
	// over-limit queries). Exposed for tests and for search diagnostics.
	steinerComputations int
}

// NewOptimizerState builds the caches for dist. The placement must be total
// and map only to servers of the network; it may violate capacities, since
// capacity repair is the first phase of refinement. Construction fails up
// front if the network cannot possibly host all anchor vertices.
func NewOptimizerState(dist *Distribution, cacheLimit int) (*OptimizerState, error) {
	if dist.Network.TotalCapacity() < dist.Hypergraph.AnchorCount() {
		return nil, fmt.Errorf("%d anchor vertices, %d capacity slots: %w",
			dist.Hypergraph.AnchorCount(), dist.Network.TotalCapacity(), ErrInfeasibleNetwork)
	}
	if !dist.Placement.covers(dist.Hypergraph, dist.Network) {
		return nil, ErrInvalidPlacement
	}

	s := &OptimizerState{
		dist:       dist,
		occupancy:  make(map[Server]int, dist.Network.NumServers()),
		edgeCost:   make(map[string]int, len(dist.Hypergraph.Hyperedges())),
		steiner:    make(map[string]int),
		cacheLimit: cacheLimit,
	}
	for _, srv := range dist.Network.Servers() {
		s.occupancy[srv] = 0
	}
	for _, v := range dist.Hypergraph.Vertices() {
		if dist.Hypergraph.IsAnchor(v) {
			s.occupancy[dist.Placement[v]]++
		}
	}
	for _, edge := range dist.Hypergraph.Hyperedges() {
		s.UpdateCost(edge)
	}
	return s, nil
}

// Distribution returns the distribution this state manages. The placement
// inside it must not be mutated by callers.
func (s *OptimizerState) Distribution() *Distribution {
	return s.dist
}

// CurrentServer returns the server vertex v is placed on.
func (s *OptimizerState) CurrentServer(v Vertex) Server {
	srv, ok := s.dist.Placement[v]
	if !ok {
		panic(fmt.Sprintf("CurrentServer: vertex %d is not placed", v))
	}
	return srv
}

// Occupancy returns the number of anchor vertices currently on server srv.
func (s *OptimizerState) Occupancy(srv Server) int {
	return s.occupancy[srv]
}

// SteinerCost returns the edge count of a Steiner tree connecting the given
// servers, consulting and populating the memo for subsets within the cache
// limit. Larger subsets are computed directly and never cached, which bounds
// the memo's memory at the cost of recomputation for very wide hyperedges.
func (s *OptimizerState) SteinerCost(servers []Server) int {
	unique := uniqueServers(servers)
	if len(unique) > s.cacheLimit {
		s.steinerComputations++
		return s.dist.Network.SteinerCost(unique)
	}
	key := serverSetKey(unique)
	cost, hit := s.steiner[key]
	if !hit {
		s.steinerComputations++
		cost = s.dist.Network.SteinerCost(unique)
		s.steiner[key] = cost
	}
	return cost
}

// SteinerComputations returns how many Steiner trees have actually been
// computed (as opposed to served from the memo).
func (s *OptimizerState) SteinerComputations() int {
	return s.steinerComputations
}

// UpdateCost recomputes the cached cost of edge from the current placement.
// It must be called whenever a vertex of the edge moves or the edge's vertex
// set changes; Move does so automatically.
func (s *OptimizerState) UpdateCost(edge Hyperedge) {
	servers := make([]Server, 0, len(edge.Vertices))
	for _, v := range edge.Vertices {
		servers = append(servers, s.dist.Placement[v])
	}
	s.edgeCost[edge.Key()] = edge.Weight * s.SteinerCost(servers)
}

// CachedCost returns the cached cost of edge, if it has one.
func (s *OptimizerState) CachedCost(edge Hyperedge) (int, bool) {
	cost, ok := s.edgeCost[edge.Key()]
	return cost, ok
}

// Cost returns the total cost of the current placement, summed from the
// per-hyperedge cache. It always equals Distribution.Cost recomputed from
// scratch; tests rely on that equality after arbitrary move sequences.
func (s *OptimizerState) Cost() int {
	total := 0
	for _, cost := range s.edgeCost {
		total += cost
	}
	return total
}

// Gain returns the change in total cost from moving v to newServer, positive
// meaning improvement, without materializing the move. Only the hyperedges
// incident to v can change cost, so the gain is the sum over those edges of
// (cost with v on its current server) − (cost with v on newServer).
func (s *OptimizerState) Gain(v Vertex, newServer Server) int {
	current := s.CurrentServer(v)
	if current == newServer {
		return 0
	}

	gain := 0
	for _, edge := range s.dist.Hypergraph.Incident(v) {
		// Servers spanned by the rest of the edge's pins.
		connected := make([]Server, 0, len(edge.Vertices))
		for _, u := range edge.Vertices {
			if u != v {
				connected = append(connected, s.dist.Placement[u])
			}
		}
		spanned := append(connected, current)
		currentCost := s.SteinerCost(spanned)
		spanned[len(spanned)-1] = newServer
		newCost := s.SteinerCost(spanned)
		gain += edge.Weight * (currentCost - newCost)
	}
	return gain
}

// IsMoveValid reports whether moving v to srv keeps srv within capacity.
// Only anchor vertices are constrained; moving a vertex onto its own server
// is valid unless that server is already over-full.
func (s *OptimizerState) IsMoveValid(v Vertex, srv Server) bool {
	if !s.dist.Hypergraph.IsAnchor(v) {
		return true
	}
	capacity := s.dist.Network.Capacity(srv)
	if srv == s.CurrentServer(v) {
		return s.occupancy[srv] <= capacity
	}
	return s.occupancy[srv] < capacity
}

// Move reassigns v to srv, updating the placement, the occupancy counters
// and the cached cost of every hyperedge incident to v. This is deliberately
// unsafe: capacity is not checked. Callers that must end up with a valid
// placement consult IsMoveValid first or pair the move with a compensating
// swap.
func (s *OptimizerState) Move(v Vertex, srv Server) {
	s.relocate(v, srv)
	for _, edge := range s.dist.Hypergraph.Incident(v) {
		s.UpdateCost(edge)
	}
}

// WithTrialMove relocates v to srv, runs fn, and restores v to its original
// server, suppressing cost recalculation for both moves. It is the probing
// primitive for swap evaluation: the cost cache is stale while fn runs (only
// gains and occupancy may be read), and is guaranteed consistent again on
// return.
func (s *OptimizerState) WithTrialMove(v Vertex, srv Server, fn func()) {
	original := s.CurrentServer(v)
	s.relocate(v, srv)
	defer s.relocate(v, original)
	fn()
}

// relocate updates placement and occupancy without touching cached costs.
func (s *OptimizerState) relocate(v Vertex, srv Server) {
	if s.frozen {
		panic(fmt.Sprintf("moving vertex %d: %v", v, ErrStateFrozen))
	}
	if !s.dist.Network.HasServer(srv) {
		panic(fmt.Sprintf("moving vertex %d to unknown server %d", v, srv))
	}
	if s.dist.Hypergraph.IsAnchor(v) {
		s.occupancy[srv]++
		s.occupancy[s.CurrentServer(v)]--
	}
	s.dist.Placement[v] = srv
}

// CommitHyperedge records an irrevocable structural commitment (an embedding
// decision made upstream) for edge. After any commitment the whole state is
// frozen: the cached cost model is no longer sound under relocation, so
// searches reject the state and direct moves panic. The lock is global, not
// per-edge.
func (s *OptimizerState) CommitHyperedge(edge Hyperedge) error {
	if !s.dist.Hypergraph.HasHyperedge(edge) {
		return fmt.Errorf("committing hyperedge %v: not in this hypergraph", edge.Vertices)
	}
	s.frozen = true
	return nil
}

// Frozen reports whether a hyperedge commitment has locked out further moves.
func (s *OptimizerState) Frozen() bool {
	return s.frozen
}

// assertValid panics unless the managed distribution is valid. Searches call
// it at their exit boundary; a failure there is a defect in the move logic,
// not a user-facing condition.
func (s *OptimizerState) assertValid() {
	if !s.dist.IsValid() {
		panic("search produced an invalid distribution")
	}
}

func uniqueServers(servers []Server) []Server {
	seen := make(map[Server]struct{}, len(servers))
	out := make([]Server, 0, len(servers))
	for _, srv := range servers {
		if _, dup := seen[srv]; dup {
			continue
		}
		seen[srv] = struct{}{}
		out = append(out, srv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func serverSetKey(sorted []Server) string {
	var sb strings.Builder
	for i, srv := range sorted {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(int(srv)))
	}
	return sb.String()
}
