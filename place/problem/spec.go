// Package problem loads placement problems (network + hypergraph + optional
// initial placement) from YAML files and builds the core model from them.
package problem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperplace/hyperplace/place"
)

// Problem is the YAML representation of a placement problem.
type Problem struct {
	Network    NetworkSpec    `yaml:"network"`
	Hypergraph HypergraphSpec `yaml:"hypergraph"`
	// Placement optionally supplies an initial vertex → server assignment.
	// When absent, searches start from a partitioner-generated placement.
	Placement map[int]int `yaml:"placement"`
}

// NetworkSpec describes the server topology.
type NetworkSpec struct {
	Servers []ServerSpec `yaml:"servers"`
	Links   [][2]int     `yaml:"links"`
}

// ServerSpec describes one server.
type ServerSpec struct {
	ID       int `yaml:"id"`
	Capacity int `yaml:"capacity"`
}

// HypergraphSpec describes the hypergraph being placed.
type HypergraphSpec struct {
	Vertices   []VertexSpec    `yaml:"vertices"`
	Hyperedges []HyperedgeSpec `yaml:"hyperedges"`
}

// VertexSpec describes one vertex. Role is "anchor" or "dependent".
type VertexSpec struct {
	ID   int    `yaml:"id"`
	Role string `yaml:"role"`
}

// HyperedgeSpec describes one hyperedge. Weight defaults to 1.
type HyperedgeSpec struct {
	Vertices []int `yaml:"vertices"`
	Weight   int   `yaml:"weight"`
}

// Load reads and parses a YAML problem file.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	return &p, nil
}

// Validate checks the parts of the file that Build cannot report precisely.
func (p *Problem) Validate() error {
	if len(p.Network.Servers) == 0 {
		return fmt.Errorf("problem must declare at least one server")
	}
	if len(p.Hypergraph.Vertices) == 0 {
		return fmt.Errorf("problem must declare at least one vertex")
	}
	seen := make(map[int]bool, len(p.Hypergraph.Vertices))
	for _, v := range p.Hypergraph.Vertices {
		if v.Role != "anchor" && v.Role != "dependent" {
			return fmt.Errorf("vertex %d has unknown role %q (want \"anchor\" or \"dependent\")", v.ID, v.Role)
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate vertex id %d", v.ID)
		}
		seen[v.ID] = true
	}
	for _, s := range p.Network.Servers {
		if s.Capacity < 0 {
			return fmt.Errorf("server %d has negative capacity %d", s.ID, s.Capacity)
		}
	}
	return nil
}

// Build constructs the hypergraph, the network, and the optional initial
// placement (nil when the file declares none).
func (p *Problem) Build() (*place.Hypergraph, *place.Network, place.Placement, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, nil, err
	}

	capacities := make(map[place.Server]int, len(p.Network.Servers))
	for _, s := range p.Network.Servers {
		capacities[place.Server(s.ID)] = s.Capacity
	}
	links := make([][2]place.Server, 0, len(p.Network.Links))
	for _, l := range p.Network.Links {
		links = append(links, [2]place.Server{place.Server(l[0]), place.Server(l[1])})
	}
	network, err := place.NewNetwork(capacities, links)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building network: %w", err)
	}

	hg := place.NewHypergraph()
	for _, v := range p.Hypergraph.Vertices {
		hg.AddVertex(place.Vertex(v.ID), v.Role == "anchor")
	}
	for _, e := range p.Hypergraph.Hyperedges {
		weight := e.Weight
		if weight == 0 {
			weight = 1
		}
		vertices := make([]place.Vertex, 0, len(e.Vertices))
		for _, id := range e.Vertices {
			vertices = append(vertices, place.Vertex(id))
		}
		if _, err := hg.AddHyperedge(vertices, weight); err != nil {
			return nil, nil, nil, fmt.Errorf("building hypergraph: %w", err)
		}
	}

	var placement place.Placement
	if len(p.Placement) > 0 {
		placement = make(place.Placement, len(p.Placement))
		for v, s := range p.Placement {
			placement[place.Vertex(v)] = place.Server(s)
		}
	}
	return hg, network, placement, nil
}
