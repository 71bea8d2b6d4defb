package place

import "fmt"

// Distribution bundles a hypergraph, a placement of its vertices and the
// server network the placement targets. It is the unit of work handed to and
// returned by every search: a successful search always returns a valid
// Distribution.
type Distribution struct {
	Hypergraph *Hypergraph
	Network    *Network
	Placement  Placement
}

// NewDistribution bundles the three components without validating them; call
// IsValid to check the result.
func NewDistribution(h *Hypergraph, n *Network, p Placement) *Distribution {
	return &Distribution{Hypergraph: h, Network: n, Placement: p}
}

// IsValid reports whether the placement is total, maps only to servers of
// the network, and respects every server's anchor capacity.
func (d *Distribution) IsValid() bool {
	if !d.Placement.covers(d.Hypergraph, d.Network) {
		return false
	}
	occupancy := make(map[Server]int, d.Network.NumServers())
	for _, v := range d.Hypergraph.Vertices() {
		if d.Hypergraph.IsAnchor(v) {
			occupancy[d.Placement[v]]++
		}
	}
	for s, occ := range occupancy {
		if occ > d.Network.Capacity(s) {
			return false
		}
	}
	return true
}

// HyperedgeCost returns weight × Steiner-tree edge count over the servers
// the edge's vertices currently occupy.
func (d *Distribution) HyperedgeCost(edge Hyperedge) int {
	servers := make([]Server, 0, len(edge.Vertices))
	for _, v := range edge.Vertices {
		servers = append(servers, d.Placement[v])
	}
	return edge.Weight * d.Network.SteinerCost(servers)
}

// Cost returns the total communication cost of the distribution: the sum of
// HyperedgeCost over all hyperedges. It recomputes from scratch and is the
// ground truth the incrementally-maintained caches must agree with.
func (d *Distribution) Cost() (int, error) {
	if !d.IsValid() {
		return 0, fmt.Errorf("computing cost: %w", ErrInvalidPlacement)
	}
	cost := 0
	for _, edge := range d.Hypergraph.Hyperedges() {
		cost += d.HyperedgeCost(edge)
	}
	return cost, nil
}
