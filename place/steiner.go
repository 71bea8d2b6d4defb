package place

import (
	"fmt"
	"sort"
)

// SteinerCost returns the number of edges of a Steiner tree connecting the
// given servers. The tree is computed with the classic metric-closure
// 2-approximation: build the complete graph over the terminals weighted by
// shortest hop distances, take its minimum spanning tree, and expand every
// MST edge into a shortest path of the network.
//
// The output is deterministic: MST ties are broken by server id and path
// expansion always steps to the smallest adjacent server that still lies on
// a shortest path. Cached hyperedge costs are only sound because repeated
// queries over the same terminal set return the same tree.
func (n *Network) SteinerCost(servers []Server) int {
	terminals := n.dedupeTerminals(servers)
	if len(terminals) <= 1 {
		return 0
	}

	// Kruskal over the metric closure of the terminal set. Pairs are sorted
	// by (distance, endpoints) so equal-weight ties resolve identically on
	// every call.
	type pair struct {
		a, b Server
		dist int
	}
	pairs := make([]pair, 0, len(terminals)*(len(terminals)-1)/2)
	for i := 0; i < len(terminals); i++ {
		for j := i + 1; j < len(terminals); j++ {
			pairs = append(pairs, pair{
				a:    terminals[i],
				b:    terminals[j],
				dist: n.Distance(terminals[i], terminals[j]),
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].dist != pairs[j].dist {
			return pairs[i].dist < pairs[j].dist
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	parent := make(map[Server]Server, len(terminals))
	for _, t := range terminals {
		parent[t] = t
	}
	var find func(Server) Server
	find = func(s Server) Server {
		if parent[s] != s {
			parent[s] = find(parent[s])
		}
		return parent[s]
	}

	edges := make(map[[2]Server]struct{})
	joined := 1
	for _, p := range pairs {
		ra, rb := find(p.a), find(p.b)
		if ra == rb {
			continue
		}
		parent[ra] = rb
		n.expandPath(p.a, p.b, edges)
		joined++
		if joined == len(terminals) {
			break
		}
	}
	return len(edges)
}

// dedupeTerminals validates and sorts the terminal set.
func (n *Network) dedupeTerminals(servers []Server) []Server {
	if len(servers) == 0 {
		panic("SteinerCost: no servers provided")
	}
	seen := make(map[Server]struct{}, len(servers))
	terminals := make([]Server, 0, len(servers))
	for _, s := range servers {
		if !n.HasServer(s) {
			panic(fmt.Sprintf("SteinerCost: unknown server %d", s))
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		terminals = append(terminals, s)
	}
	sort.Slice(terminals, func(i, j int) bool { return terminals[i] < terminals[j] })
	return terminals
}

// expandPath walks a shortest path from a to b and records its edges.
// At every step the walk moves to the smallest neighbour that reduces the
// remaining distance, so the chosen path is unique.
func (n *Network) expandPath(a, b Server, edges map[[2]Server]struct{}) {
	cur := a
	for cur != b {
		remaining := n.Distance(cur, b)
		next := cur
		for _, w := range n.neighboursOf(cur) {
			if n.Distance(w, b) == remaining-1 {
				next = w
				break
			}
		}
		if next == cur {
			panic(fmt.Sprintf("no shortest-path step from %d towards %d", cur, b))
		}
		edges[orderedEdge(cur, next)] = struct{}{}
		cur = next
	}
}

func orderedEdge(a, b Server) [2]Server {
	if a < b {
		return [2]Server{a, b}
	}
	return [2]Server{b, a}
}
