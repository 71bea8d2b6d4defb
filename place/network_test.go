package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetwork_Validation(t *testing.T) {
	tests := []struct {
		name    string
		caps    map[Server]int
		links   [][2]Server
		wantErr bool
	}{
		{"single server", map[Server]int{0: 2}, nil, false},
		{"pair", map[Server]int{0: 1, 1: 1}, [][2]Server{{0, 1}}, false},
		{"no servers", map[Server]int{}, nil, true},
		{"negative capacity", map[Server]int{0: -1}, nil, true},
		{"unknown link endpoint", map[Server]int{0: 1, 1: 1}, [][2]Server{{0, 5}}, true},
		{"self loop", map[Server]int{0: 1, 1: 1}, [][2]Server{{0, 0}, {0, 1}}, true},
		{"disconnected", map[Server]int{0: 1, 1: 1, 2: 1}, [][2]Server{{0, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNetwork(tt.caps, tt.links)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNetwork_Accessors(t *testing.T) {
	n := pathNetwork(t, 4, 2)

	assert.Equal(t, []Server{0, 1, 2, 3}, n.Servers())
	assert.Equal(t, 4, n.NumServers())
	assert.Equal(t, 8, n.TotalCapacity())
	assert.Equal(t, 2, n.Capacity(2))
	assert.True(t, n.HasServer(3))
	assert.False(t, n.HasServer(4))
}

func TestNetwork_Distance(t *testing.T) {
	n := pathNetwork(t, 4, 1)
	assert.Equal(t, 0, n.Distance(2, 2))
	assert.Equal(t, 1, n.Distance(0, 1))
	assert.Equal(t, 3, n.Distance(0, 3))
}

func TestSteinerCost_SingleAndPair(t *testing.T) {
	n := pathNetwork(t, 4, 1)

	assert.Equal(t, 0, n.SteinerCost([]Server{2}))
	assert.Equal(t, 0, n.SteinerCost([]Server{2, 2}), "duplicates collapse")
	assert.Equal(t, 1, n.SteinerCost([]Server{1, 2}))
	assert.Equal(t, 3, n.SteinerCost([]Server{0, 3}), "pair cost is the shortest path length")
}

func TestSteinerCost_Triangle(t *testing.T) {
	// Any spanning choice of 2 of the 3 edges is optimal; the cost must be 2
	// no matter which tree the implementation picks.
	n := triangleNetwork(t, 1)
	assert.Equal(t, 2, n.SteinerCost([]Server{0, 1, 2}))
}

func TestSteinerCost_PathSubsumesMiddle(t *testing.T) {
	// Terminals 0 and 3 on a line: the tree runs through 1 and 2, and adding
	// either as an explicit terminal cannot change the cost.
	n := pathNetwork(t, 4, 1)
	assert.Equal(t, 3, n.SteinerCost([]Server{0, 3}))
	assert.Equal(t, 3, n.SteinerCost([]Server{0, 1, 3}))
	assert.Equal(t, 3, n.SteinerCost([]Server{0, 1, 2, 3}))
}

func TestSteinerCost_StarBranches(t *testing.T) {
	// Hub 0 with three leaves: connecting all leaves needs all three spokes.
	n, err := NewNetwork(
		map[Server]int{0: 1, 1: 1, 2: 1, 3: 1},
		[][2]Server{{0, 1}, {0, 2}, {0, 3}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n.SteinerCost([]Server{1, 2, 3}))
	assert.Equal(t, 2, n.SteinerCost([]Server{1, 2}))
}

func TestSteinerCost_Deterministic(t *testing.T) {
	n := triangleNetwork(t, 1)
	first := n.SteinerCost([]Server{0, 1, 2})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, n.SteinerCost([]Server{2, 0, 1}))
	}
}

func TestSteinerCost_UnknownServer_Panics(t *testing.T) {
	n := pathNetwork(t, 2, 1)
	assert.Panics(t, func() { n.SteinerCost([]Server{0, 9}) })
	assert.Panics(t, func() { n.SteinerCost(nil) })
}
