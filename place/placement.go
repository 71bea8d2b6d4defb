package place

import "sort"

// Placement maps every hypergraph vertex to the server hosting it. It is
// mutated in place by the optimization engine; callers must treat a
// placement handed to a search as exclusively borrowed until it returns.
type Placement map[Vertex]Server

// Clone returns an independent copy of the placement.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	for v, s := range p {
		out[v] = s
	}
	return out
}

// VerticesIn returns the vertices placed on server s in increasing order.
func (p Placement) VerticesIn(s Server) []Vertex {
	var out []Vertex
	for v, placed := range p {
		if placed == s {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// covers reports whether the placement is total over the vertices of h and
// maps only to servers of n.
func (p Placement) covers(h *Hypergraph, n *Network) bool {
	for _, v := range h.Vertices() {
		s, ok := p[v]
		if !ok || !n.HasServer(s) {
			return false
		}
	}
	return len(p) == len(h.Vertices())
}
