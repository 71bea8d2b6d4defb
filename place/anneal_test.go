package place

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptance(t *testing.T) {
	assert.Equal(t, 1.0, Acceptance(0, 0, DefaultInitialTemperature))
	assert.Greater(t, Acceptance(1, 0, DefaultInitialTemperature), 1.0, "improvements always pass")

	// Worsening moves have sub-unit probability that cools with the iteration
	// index.
	early := Acceptance(-2, 0, DefaultInitialTemperature)
	late := Acceptance(-2, 1000, DefaultInitialTemperature)
	assert.Less(t, early, 1.0)
	assert.Greater(t, early, 0.0)
	assert.Less(t, late, early)

	// Extreme gains saturate instead of producing NaN.
	assert.True(t, math.IsInf(Acceptance(100000, 100000, DefaultInitialTemperature), 1))
	assert.Zero(t, Acceptance(-100000, 100000, DefaultInitialTemperature))
}

func TestAcceptance_MonotoneInGain(t *testing.T) {
	for _, iteration := range []int{0, 1, 10, 1000} {
		prev := Acceptance(-5, iteration, DefaultInitialTemperature)
		for gain := -4; gain <= 5; gain++ {
			cur := Acceptance(gain, iteration, DefaultInitialTemperature)
			assert.GreaterOrEqual(t, cur, prev, "gain %d at iteration %d", gain, iteration)
			prev = cur
		}
	}
}

func TestAnneal_InvalidConfig(t *testing.T) {
	h, n, p := stateFixture(t, 2)
	state := mustState(t, h, n, p)

	cfg := DefaultAnnealConfig()
	cfg.Iterations = -1
	assert.Error(t, Anneal(state, cfg, refineRNG(1).ForSubsystem(SubsystemAnneal)))

	cfg = DefaultAnnealConfig()
	cfg.InitialTemperature = 0
	assert.Error(t, Anneal(state, cfg, refineRNG(1).ForSubsystem(SubsystemAnneal)))
}

func TestAnneal_RequiresValidPlacement(t *testing.T) {
	h, n, _ := stateFixture(t, 2)
	crowded := Placement{0: 0, 1: 0, 2: 0, 3: 0, 4: 0}
	state := mustState(t, h, n, crowded)

	err := Anneal(state, DefaultAnnealConfig(), refineRNG(1).ForSubsystem(SubsystemAnneal))
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestAnneal_ZeroIterationsIsIdentity(t *testing.T) {
	h, n, p := stateFixture(t, 2)
	state := mustState(t, h, n, p)
	before := state.Cost()

	cfg := DefaultAnnealConfig()
	cfg.Iterations = 0
	require.NoError(t, Anneal(state, cfg, refineRNG(9).ForSubsystem(SubsystemAnneal)))

	assert.Equal(t, before, state.Cost())
	if diff := cmp.Diff(p, state.Distribution().Placement); diff != "" {
		t.Errorf("placement changed with zero iterations (-want +got):\n%s", diff)
	}
}

func TestAnneal_SingleServerIsIdentity(t *testing.T) {
	h := buildHypergraph(t, []Vertex{0}, []Vertex{1}, []edgeSpec{{vertices: []Vertex{0, 1}}})
	n, err := NewNetwork(map[Server]int{0: 1}, nil)
	require.NoError(t, err)
	state := mustState(t, h, n, Placement{0: 0, 1: 0})

	require.NoError(t, Anneal(state, DefaultAnnealConfig(), refineRNG(9).ForSubsystem(SubsystemAnneal)))
	assert.Equal(t, Server(0), state.CurrentServer(1))
}

func TestAnneal_PreservesValidityUnderTightCapacity(t *testing.T) {
	// Every server is exactly full, so any accepted anchor move must come as a
	// swap. After hundreds of proposals the placement must still be valid and
	// the cost cache must agree with a fresh recomputation.
	h := buildHypergraph(t,
		[]Vertex{0, 1, 2},
		[]Vertex{3, 4, 5},
		[]edgeSpec{
			{vertices: []Vertex{0, 3, 4}},
			{vertices: []Vertex{1, 4, 5}},
			{vertices: []Vertex{2, 3, 5}, weight: 2},
		})
	n := triangleNetwork(t, 1)
	state := mustState(t, h, n, Placement{0: 0, 1: 1, 2: 2, 3: 1, 4: 2, 5: 0})

	cfg := DefaultAnnealConfig()
	cfg.Iterations = 500
	require.NoError(t, Anneal(state, cfg, refineRNG(13).ForSubsystem(SubsystemAnneal)))

	assert.True(t, state.Distribution().IsValid())
	fresh, err := state.Distribution().Cost()
	require.NoError(t, err)
	assert.Equal(t, fresh, state.Cost())
}

func TestAnneal_DeterministicBySeed(t *testing.T) {
	run := func(seed int64) Placement {
		h, n, p := stateFixture(t, 2)
		state := mustState(t, h, n, p)
		cfg := DefaultAnnealConfig()
		cfg.Iterations = 300
		require.NoError(t, Anneal(state, cfg, refineRNG(seed).ForSubsystem(SubsystemAnneal)))
		return state.Distribution().Placement
	}

	first := run(42)
	second := run(42)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different placements (-first +second):\n%s", diff)
	}
}
