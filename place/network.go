package place

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Server identifies a placement target node in the network.
type Server int

// Network is the connected undirected graph of servers onto which vertices
// are placed. Each server has a fixed capacity: the number of anchor vertices
// it may host. Both the capacities and the connectivity graph are immutable
// once constructed; all-pairs shortest hop distances are precomputed at
// construction time and shared by every Steiner-tree query.
type Network struct {
	servers  []Server
	capacity map[Server]int
	graph    *simple.UndirectedGraph
	paths    path.AllShortest
}

// NewNetwork builds a network from per-server capacities and undirected
// links. The link graph must connect all servers.
func NewNetwork(capacities map[Server]int, links [][2]Server) (*Network, error) {
	if len(capacities) == 0 {
		return nil, fmt.Errorf("network must contain at least one server")
	}

	servers := make([]Server, 0, len(capacities))
	for s, c := range capacities {
		if c < 0 {
			return nil, fmt.Errorf("server %d has negative capacity %d", s, c)
		}
		servers = append(servers, s)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i] < servers[j] })

	g := simple.NewUndirectedGraph()
	for _, s := range servers {
		g.AddNode(simple.Node(int64(s)))
	}
	for _, link := range links {
		a, b := link[0], link[1]
		if _, ok := capacities[a]; !ok {
			return nil, fmt.Errorf("link %v refers to unknown server %d", link, a)
		}
		if _, ok := capacities[b]; !ok {
			return nil, fmt.Errorf("link %v refers to unknown server %d", link, b)
		}
		if a == b {
			return nil, fmt.Errorf("link %v is a self-loop", link)
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(a)), T: simple.Node(int64(b))})
	}

	if len(topo.ConnectedComponents(g)) != 1 {
		return nil, fmt.Errorf("server network is not connected")
	}

	paths, ok := path.FloydWarshall(g)
	if !ok {
		// Cannot happen with unit edge weights.
		panic("negative cycle in server network distances")
	}

	capCopy := make(map[Server]int, len(capacities))
	for s, c := range capacities {
		capCopy[s] = c
	}
	return &Network{
		servers:  servers,
		capacity: capCopy,
		graph:    g,
		paths:    paths,
	}, nil
}

// Servers returns all servers in increasing order. Callers must not mutate
// the returned slice.
func (n *Network) Servers() []Server {
	return n.servers
}

// NumServers returns the number of servers in the network.
func (n *Network) NumServers() int {
	return len(n.servers)
}

// HasServer reports whether s is a server of this network.
func (n *Network) HasServer(s Server) bool {
	_, ok := n.capacity[s]
	return ok
}

// Capacity returns the number of anchor vertices server s may host.
func (n *Network) Capacity(s Server) int {
	return n.capacity[s]
}

// TotalCapacity returns the summed capacity of all servers.
func (n *Network) TotalCapacity() int {
	total := 0
	for _, s := range n.servers {
		total += n.capacity[s]
	}
	return total
}

// Distance returns the shortest hop count between two servers.
func (n *Network) Distance(a, b Server) int {
	return int(n.paths.Weight(int64(a), int64(b)))
}

// neighboursOf returns the servers adjacent to s in increasing order.
func (n *Network) neighboursOf(s Server) []Server {
	nodes := graph.NodesOf(n.graph.From(int64(s)))
	out := make([]Server, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, Server(node.ID()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
