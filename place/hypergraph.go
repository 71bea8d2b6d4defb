package place

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Vertex identifies a unit of the computation being placed. Vertices carry
// one of two roles: anchors consume server capacity, dependents do not.
type Vertex int

// Hyperedge is an ordered, non-empty set of vertices that must be made
// mutually reachable, plus an integer weight. Weight counts the number of
// independent communication events the edge requires (normally 1, sometimes
// 2 for operations that need an extra synchronization round).
//
// Hyperedges are identified by their canonical Key, not by position, so they
// survive structural edits such as merges and splits.
type Hyperedge struct {
	Vertices []Vertex
	Weight   int
}

// NewHyperedge builds a hyperedge over vertices with the given weight.
func NewHyperedge(vertices []Vertex, weight int) Hyperedge {
	return Hyperedge{Vertices: vertices, Weight: weight}
}

// Key returns the canonical identity of the hyperedge, derived from its
// vertex set and weight. Two hyperedges with the same vertices and weight
// are the same edge regardless of where they sit in the hypergraph.
func (e Hyperedge) Key() string {
	var sb strings.Builder
	for i, v := range e.Vertices {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte('w')
	sb.WriteString(strconv.Itoa(e.Weight))
	return sb.String()
}

// Contains reports whether v is a member of the hyperedge.
func (e Hyperedge) Contains(v Vertex) bool {
	for _, u := range e.Vertices {
		if u == v {
			return true
		}
	}
	return false
}

// Hypergraph holds vertices and weighted hyperedges along with the derived
// incidence and neighbourhood indices that searches consult constantly.
// The vertex set is fixed once built; hyperedges may be replaced wholesale
// by merge/split edits but are never mutated in place.
type Hypergraph struct {
	vertices   []Vertex
	edges      []Hyperedge
	incident   map[Vertex][]Hyperedge
	neighbours map[Vertex]map[Vertex]struct{}
	anchors    map[Vertex]bool
}

// NewHypergraph returns an empty hypergraph.
func NewHypergraph() *Hypergraph {
	return &Hypergraph{
		incident:   make(map[Vertex][]Hyperedge),
		neighbours: make(map[Vertex]map[Vertex]struct{}),
		anchors:    make(map[Vertex]bool),
	}
}

// AddVertex registers a vertex and its role. Adding a vertex twice is a no-op
// for the vertex list but updates the role.
func (h *Hypergraph) AddVertex(v Vertex, anchor bool) {
	if _, known := h.neighbours[v]; !known {
		h.vertices = append(h.vertices, v)
		h.incident[v] = nil
		h.neighbours[v] = make(map[Vertex]struct{})
	}
	h.anchors[v] = anchor
}

// AddHyperedge appends a hyperedge over the given vertices. The vertices must
// already be in the hypergraph, must be strictly increasing, and exactly one
// of them must be an anchor.
func (h *Hypergraph) AddHyperedge(vertices []Vertex, weight int) (Hyperedge, error) {
	edge := NewHyperedge(vertices, weight)
	if err := h.validateEdge(edge); err != nil {
		return Hyperedge{}, err
	}
	h.insertEdge(edge, len(h.edges))
	return edge, nil
}

func (h *Hypergraph) validateEdge(edge Hyperedge) error {
	if len(edge.Vertices) == 0 {
		return fmt.Errorf("hyperedge must contain at least one vertex")
	}
	if edge.Weight < 1 {
		return fmt.Errorf("hyperedge weight must be positive, got %d", edge.Weight)
	}
	anchors := 0
	for i, v := range edge.Vertices {
		if _, known := h.neighbours[v]; !known {
			return fmt.Errorf("hyperedge refers to unknown vertex %d", v)
		}
		if i > 0 && edge.Vertices[i-1] >= v {
			return fmt.Errorf("hyperedge vertices must be strictly increasing, got %v", edge.Vertices)
		}
		if h.anchors[v] {
			anchors++
		}
	}
	if anchors != 1 {
		return fmt.Errorf("hyperedge must contain exactly one anchor vertex, got %d in %v", anchors, edge.Vertices)
	}
	return nil
}

// insertEdge places edge at index pos of the edge list and updates the
// incidence and neighbourhood indices.
func (h *Hypergraph) insertEdge(edge Hyperedge, pos int) {
	h.edges = append(h.edges, Hyperedge{})
	copy(h.edges[pos+1:], h.edges[pos:])
	h.edges[pos] = edge

	for _, v := range edge.Vertices {
		h.incident[v] = append(h.incident[v], edge)
		for _, u := range edge.Vertices {
			if u != v {
				h.neighbours[v][u] = struct{}{}
			}
		}
	}
}

// RemoveHyperedge deletes the hyperedge and prunes neighbour pairs that are
// no longer connected through any remaining edge.
func (h *Hypergraph) RemoveHyperedge(edge Hyperedge) error {
	pos := h.indexOf(edge)
	if pos < 0 {
		return fmt.Errorf("hyperedge %v is not in this hypergraph", edge.Vertices)
	}
	h.edges = append(h.edges[:pos], h.edges[pos+1:]...)

	key := edge.Key()
	for _, v := range edge.Vertices {
		inc := h.incident[v]
		for i, e := range inc {
			if e.Key() == key {
				h.incident[v] = append(inc[:i], inc[i+1:]...)
				break
			}
		}
		// A former neighbour stays a neighbour only if the pair still
		// shares some other hyperedge.
		for _, u := range edge.Vertices {
			if u == v {
				continue
			}
			paired := false
			for _, e := range h.incident[v] {
				if e.Contains(u) {
					paired = true
					break
				}
			}
			if !paired {
				delete(h.neighbours[v], u)
			}
		}
	}
	return nil
}

func (h *Hypergraph) indexOf(edge Hyperedge) int {
	key := edge.Key()
	for i, e := range h.edges {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// HasHyperedge reports whether the hypergraph contains the edge.
func (h *Hypergraph) HasHyperedge(edge Hyperedge) bool {
	return h.indexOf(edge) >= 0
}

// Vertices returns the vertex list in insertion order.
func (h *Hypergraph) Vertices() []Vertex {
	return h.vertices
}

// Hyperedges returns the hyperedge list. Callers must not mutate it.
func (h *Hypergraph) Hyperedges() []Hyperedge {
	return h.edges
}

// Incident returns the hyperedges containing v.
func (h *Hypergraph) Incident(v Vertex) []Hyperedge {
	return h.incident[v]
}

// Neighbours returns the hyperedge-neighbours of v in increasing order.
func (h *Hypergraph) Neighbours(v Vertex) []Vertex {
	out := make([]Vertex, 0, len(h.neighbours[v]))
	for u := range h.neighbours[v] {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsAnchor reports whether v consumes server capacity.
func (h *Hypergraph) IsAnchor(v Vertex) bool {
	return h.anchors[v]
}

// AnchorCount returns the number of anchor vertices.
func (h *Hypergraph) AnchorCount() int {
	n := 0
	for _, v := range h.vertices {
		if h.anchors[v] {
			n++
		}
	}
	return n
}

// Boundary returns the frontier of the placement: every vertex with at least
// one hyperedge-neighbour on a different server, in vertex order.
func (h *Hypergraph) Boundary(p Placement) []Vertex {
	var boundary []Vertex
	for _, v := range h.vertices {
		mine := p[v]
		for u := range h.neighbours[v] {
			if p[u] != mine {
				boundary = append(boundary, v)
				break
			}
		}
	}
	return boundary
}

// MergeHyperedges replaces the given hyperedges with a single edge over the
// union of their vertices. All inputs must be distinct edges of the
// hypergraph and carry equal weights, and the union must still contain
// exactly one anchor. The merged edge takes the list position of the
// earliest input.
func (h *Hypergraph) MergeHyperedges(toMerge []Hyperedge) (Hyperedge, error) {
	if len(toMerge) < 2 {
		return Hyperedge{}, fmt.Errorf("merging requires at least two hyperedges, got %d", len(toMerge))
	}
	seen := make(map[string]bool, len(toMerge))
	pos := -1
	for _, edge := range toMerge {
		i := h.indexOf(edge)
		if i < 0 {
			return Hyperedge{}, fmt.Errorf("hyperedge %v is not in this hypergraph", edge.Vertices)
		}
		if edge.Weight != toMerge[0].Weight {
			return Hyperedge{}, fmt.Errorf("hyperedges to merge must have equal weights, got %d and %d",
				toMerge[0].Weight, edge.Weight)
		}
		if seen[edge.Key()] {
			return Hyperedge{}, fmt.Errorf("hyperedges to merge must be distinct")
		}
		seen[edge.Key()] = true
		if pos < 0 || i < pos {
			pos = i
		}
	}

	union := make(map[Vertex]struct{})
	for _, edge := range toMerge {
		for _, v := range edge.Vertices {
			union[v] = struct{}{}
		}
	}
	vertices := make([]Vertex, 0, len(union))
	for v := range union {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

	merged := NewHyperedge(vertices, toMerge[0].Weight)
	if err := h.validateEdge(merged); err != nil {
		return Hyperedge{}, fmt.Errorf("merged hyperedge is invalid: %w", err)
	}
	for _, edge := range toMerge {
		if err := h.RemoveHyperedge(edge); err != nil {
			panic(fmt.Sprintf("merge lost hyperedge %v mid-edit: %v", edge.Vertices, err))
		}
	}
	if pos > len(h.edges) {
		pos = len(h.edges)
	}
	h.insertEdge(merged, pos)
	return merged, nil
}

// SplitHyperedge replaces old with the edges in parts. Together the parts
// must cover exactly the vertices of old (they may share the anchor), and
// each part must be a valid hyperedge on its own. The parts take the list
// position of old, in order.
func (h *Hypergraph) SplitHyperedge(old Hyperedge, parts []Hyperedge) error {
	pos := h.indexOf(old)
	if pos < 0 {
		return fmt.Errorf("hyperedge %v is not in this hypergraph", old.Vertices)
	}
	if len(parts) == 0 {
		return fmt.Errorf("splitting requires at least one replacement hyperedge")
	}

	covered := make(map[Vertex]struct{})
	for _, part := range parts {
		if err := h.validateEdge(part); err != nil {
			return fmt.Errorf("split part %v is invalid: %w", part.Vertices, err)
		}
		for _, v := range part.Vertices {
			covered[v] = struct{}{}
		}
	}
	if len(covered) != len(old.Vertices) {
		return fmt.Errorf("split parts do not cover the vertices of %v", old.Vertices)
	}
	for _, v := range old.Vertices {
		if _, ok := covered[v]; !ok {
			return fmt.Errorf("split parts do not cover the vertices of %v", old.Vertices)
		}
	}

	if err := h.RemoveHyperedge(old); err != nil {
		return err
	}
	for i, part := range parts {
		h.insertEdge(part, pos+i)
	}
	return nil
}
