package place

import (
	"math/rand"
)

// InitialPartitioner produces a first-cut placement for a search to refine.
// Implementations may return a capacity-violating placement; Refine repairs
// capacities before optimizing. External black-box partitioners plug in
// through this interface and are treated as oracles.
type InitialPartitioner interface {
	Partition(h *Hypergraph, n *Network, rng *rand.Rand) (Placement, error)
}

// RandomPartitioner places vertices on servers uniformly at random. The
// resulting placement is valid: anchor vertices are only placed on servers
// with remaining capacity.
type RandomPartitioner struct{}

// Partition implements InitialPartitioner for RandomPartitioner.
func (RandomPartitioner) Partition(h *Hypergraph, n *Network, rng *rand.Rand) (Placement, error) {
	if n.TotalCapacity() < h.AnchorCount() {
		return nil, ErrInfeasibleNetwork
	}

	occupancy := make(map[Server]int, n.NumServers())
	placement := make(Placement, len(h.Vertices()))
	for _, v := range h.Vertices() {
		if !h.IsAnchor(v) {
			placement[v] = n.Servers()[rng.Intn(n.NumServers())]
			continue
		}
		// Anchors draw only from servers with headroom.
		open := make([]Server, 0, n.NumServers())
		for _, srv := range n.Servers() {
			if occupancy[srv] < n.Capacity(srv) {
				open = append(open, srv)
			}
		}
		srv := open[rng.Intn(len(open))]
		placement[v] = srv
		occupancy[srv]++
	}
	return placement, nil
}

// BrutePartitioner searches every possible placement and returns a minimum
// cost one. It is exponential in the vertex count and exists as a reference
// oracle for tests and tiny problems.
type BrutePartitioner struct{}

// Partition implements InitialPartitioner for BrutePartitioner. It returns
// ErrNoValidPlacement when no assignment satisfies the capacity constraints.
func (BrutePartitioner) Partition(h *Hypergraph, n *Network, _ *rand.Rand) (Placement, error) {
	vertices := h.Vertices()
	servers := n.Servers()

	assignment := make([]int, len(vertices))
	var best Placement
	bestCost := 0

	for {
		placement := make(Placement, len(vertices))
		for i, v := range vertices {
			placement[v] = servers[assignment[i]]
		}
		dist := NewDistribution(h, n, placement)
		if dist.IsValid() {
			cost, err := dist.Cost()
			if err != nil {
				return nil, err
			}
			if best == nil || cost < bestCost {
				best = placement
				bestCost = cost
			}
			if cost == 0 {
				break
			}
		}

		// Advance the odometer over server indices.
		i := 0
		for ; i < len(assignment); i++ {
			assignment[i]++
			if assignment[i] < len(servers) {
				break
			}
			assignment[i] = 0
		}
		if i == len(assignment) {
			break
		}
	}

	if best == nil {
		return nil, ErrNoValidPlacement
	}
	return best, nil
}
