package place

import (
	"fmt"
	"sort"
)

// EditPolicy is the externally-supplied legality predicate for structural
// edits. The engine only decides whether an edit is cost-beneficial and
// performs it atomically; whether an edit is allowed at all (for example,
// whether merging would require an unsupported synchronization pattern) is
// domain knowledge decided by upstream analysis.
type EditPolicy interface {
	AllowMerge(edges []Hyperedge) bool
	AllowSplit(old Hyperedge, parts []Hyperedge) bool
}

// AllowAllEdits permits every structural edit.
type AllowAllEdits struct{}

func (AllowAllEdits) AllowMerge([]Hyperedge) bool            { return true }
func (AllowAllEdits) AllowSplit(Hyperedge, []Hyperedge) bool { return true }

// MergeGain returns the cost reduction of replacing edges with a single
// hyperedge over the union of their vertices: Σ cost(edge) − cost(merged).
// Cached costs are used where available; anything uncached is computed fresh
// without mutating the hypergraph.
func (s *OptimizerState) MergeGain(edges []Hyperedge) (int, error) {
	if len(edges) < 2 {
		return 0, fmt.Errorf("merge gain requires at least two hyperedges, got %d", len(edges))
	}
	before := 0
	for _, edge := range edges {
		if !s.dist.Hypergraph.HasHyperedge(edge) {
			return 0, fmt.Errorf("hyperedge %v is not in this hypergraph", edge.Vertices)
		}
		before += s.edgeCostOrFresh(edge)
	}
	return before - s.freshCost(unionEdge(edges)), nil
}

// SplitGain returns the cost reduction of replacing old with parts:
// cost(old) − Σ cost(part).
func (s *OptimizerState) SplitGain(old Hyperedge, parts []Hyperedge) (int, error) {
	if !s.dist.Hypergraph.HasHyperedge(old) {
		return 0, fmt.Errorf("hyperedge %v is not in this hypergraph", old.Vertices)
	}
	if len(parts) == 0 {
		return 0, fmt.Errorf("split gain requires at least one replacement hyperedge")
	}
	after := 0
	for _, part := range parts {
		after += s.freshCost(part)
	}
	return s.edgeCostOrFresh(old) - after, nil
}

// MergeHyperedges performs the merge on the hypergraph and updates the cost
// cache: the input edges' cached costs are dropped and the merged edge's
// cost is recomputed from the current placement. The edit is atomic; on
// error neither the hypergraph nor the cache changes.
func (s *OptimizerState) MergeHyperedges(edges []Hyperedge) (Hyperedge, error) {
	if s.frozen {
		return Hyperedge{}, ErrStateFrozen
	}
	merged, err := s.dist.Hypergraph.MergeHyperedges(edges)
	if err != nil {
		return Hyperedge{}, err
	}
	for _, edge := range edges {
		delete(s.edgeCost, edge.Key())
	}
	s.UpdateCost(merged)
	return merged, nil
}

// SplitHyperedge performs the split on the hypergraph and updates the cost
// cache accordingly.
func (s *OptimizerState) SplitHyperedge(old Hyperedge, parts []Hyperedge) error {
	if s.frozen {
		return ErrStateFrozen
	}
	if err := s.dist.Hypergraph.SplitHyperedge(old, parts); err != nil {
		return err
	}
	delete(s.edgeCost, old.Key())
	for _, part := range parts {
		s.UpdateCost(part)
	}
	return nil
}

// MergeBeneficial merges edges when the policy allows it and the merge
// strictly reduces cost. It reports whether the merge was applied and, if
// so, the resulting edge.
func (s *OptimizerState) MergeBeneficial(edges []Hyperedge, policy EditPolicy) (Hyperedge, bool, error) {
	if policy != nil && !policy.AllowMerge(edges) {
		return Hyperedge{}, false, nil
	}
	gain, err := s.MergeGain(edges)
	if err != nil {
		return Hyperedge{}, false, err
	}
	if gain <= 0 {
		return Hyperedge{}, false, nil
	}
	merged, err := s.MergeHyperedges(edges)
	if err != nil {
		return Hyperedge{}, false, err
	}
	return merged, true, nil
}

// edgeCostOrFresh prefers the cached cost of a hypergraph edge, computing it
// from the placement only on a cache miss.
func (s *OptimizerState) edgeCostOrFresh(edge Hyperedge) int {
	if cost, ok := s.edgeCost[edge.Key()]; ok {
		return cost
	}
	return s.freshCost(edge)
}

// freshCost prices an edge (hypothetical or real) against the current
// placement without touching the per-edge cache.
func (s *OptimizerState) freshCost(edge Hyperedge) int {
	servers := make([]Server, 0, len(edge.Vertices))
	for _, v := range edge.Vertices {
		servers = append(servers, s.dist.Placement[v])
	}
	return edge.Weight * s.SteinerCost(servers)
}

// unionEdge builds the candidate hyperedge a merge would produce.
func unionEdge(edges []Hyperedge) Hyperedge {
	set := make(map[Vertex]struct{})
	for _, edge := range edges {
		for _, v := range edge.Vertices {
			set[v] = struct{}{}
		}
	}
	vertices := make([]Vertex, 0, len(set))
	for v := range set {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return NewHyperedge(vertices, edges[0].Weight)
}
