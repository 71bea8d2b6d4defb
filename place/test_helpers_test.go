package place

import (
	"testing"
)

// triangleNetwork builds 3 mutually adjacent servers with equal capacity.
func triangleNetwork(t *testing.T, capacity int) *Network {
	t.Helper()
	n, err := NewNetwork(
		map[Server]int{0: capacity, 1: capacity, 2: capacity},
		[][2]Server{{0, 1}, {1, 2}, {0, 2}},
	)
	if err != nil {
		t.Fatalf("building triangle network: %v", err)
	}
	return n
}

// pathNetwork builds servers 0..n-1 connected in a line, each with the given
// capacity.
func pathNetwork(t *testing.T, n int, capacity int) *Network {
	t.Helper()
	caps := make(map[Server]int, n)
	var links [][2]Server
	for i := 0; i < n; i++ {
		caps[Server(i)] = capacity
		if i > 0 {
			links = append(links, [2]Server{Server(i - 1), Server(i)})
		}
	}
	network, err := NewNetwork(caps, links)
	if err != nil {
		t.Fatalf("building path network: %v", err)
	}
	return network
}

// pairNetwork builds 2 linked servers with the given capacities.
func pairNetwork(t *testing.T, cap0, cap1 int) *Network {
	t.Helper()
	n, err := NewNetwork(map[Server]int{0: cap0, 1: cap1}, [][2]Server{{0, 1}})
	if err != nil {
		t.Fatalf("building pair network: %v", err)
	}
	return n
}

// edgeSpec is a compact hyperedge description for test hypergraphs.
type edgeSpec struct {
	vertices []Vertex
	weight   int
}

// buildHypergraph creates a hypergraph with the given anchor and dependent
// vertices and hyperedges. Zero-weight specs default to weight 1.
func buildHypergraph(t *testing.T, anchors, dependents []Vertex, edges []edgeSpec) *Hypergraph {
	t.Helper()
	h := NewHypergraph()
	for _, v := range anchors {
		h.AddVertex(v, true)
	}
	for _, v := range dependents {
		h.AddVertex(v, false)
	}
	for _, e := range edges {
		weight := e.weight
		if weight == 0 {
			weight = 1
		}
		if _, err := h.AddHyperedge(e.vertices, weight); err != nil {
			t.Fatalf("adding hyperedge %v: %v", e.vertices, err)
		}
	}
	return h
}

// mustState builds an OptimizerState with the default cache limit.
func mustState(t *testing.T, h *Hypergraph, n *Network, p Placement) *OptimizerState {
	t.Helper()
	state, err := NewOptimizerState(NewDistribution(h, n, p), DefaultCacheLimit)
	if err != nil {
		t.Fatalf("building optimizer state: %v", err)
	}
	return state
}
