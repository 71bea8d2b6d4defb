package place

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Acceptance returns the simulated-annealing acceptance criterion for a move
// of the given gain at the given iteration. Gains ≥ 0 yield values ≥ 1 and
// are always accepted; negative gains yield a probability that shrinks both
// with the magnitude of the loss and with the iteration index, following the
// cooling schedule T = T0/(i+1). The result saturates to +Inf rather than
// overflowing.
func Acceptance(gain int, iteration int, initialTemperature float64) float64 {
	temperature := initialTemperature / float64(iteration+1)
	return math.Exp(float64(gain) / temperature)
}

// Anneal runs a simulated-annealing search over the placement managed by
// state: each iteration proposes moving a uniformly random vertex to a
// uniformly random other server (swapping with a random anchor when the
// destination is full) and accepts the proposal with probability
// Acceptance(gain, i, T0). Worsening moves are accepted early on and
// increasingly rejected as the temperature cools, which lets the search
// climb out of local optima that Refine cannot.
//
// The placement must be valid on entry and remains valid on return. With
// Iterations == 0 the placement is returned untouched.
func Anneal(state *OptimizerState, cfg AnnealConfig, rng *rand.Rand) error {
	if state.Frozen() {
		return ErrStateFrozen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !state.Distribution().IsValid() {
		return ErrInvalidPlacement
	}

	vertices := state.Distribution().Hypergraph.Vertices()
	servers := state.Distribution().Network.Servers()
	if len(vertices) == 0 || len(servers) < 2 {
		return nil
	}

	accepted := 0
	for i := 0; i < cfg.Iterations; i++ {
		v := vertices[rng.Intn(len(vertices))]
		home := state.CurrentServer(v)
		dest := randomOtherServer(rng, servers, home)

		// A full destination forces a swap: a uniformly random anchor in the
		// destination trades places with v.
		swapVertex := Vertex(0)
		hasSwap := false
		if !state.IsMoveValid(v, dest) {
			partners := anchorsIn(state, dest)
			if len(partners) == 0 {
				// Zero-capacity server; nothing can trade places.
				continue
			}
			swapVertex = partners[rng.Intn(len(partners))]
			hasSwap = true
		}

		gain := state.Gain(v, dest)
		if hasSwap {
			// The partner's gain is only exact with v already relocated.
			state.WithTrialMove(v, dest, func() {
				gain += state.Gain(swapVertex, home)
			})
		}

		if Acceptance(gain, i, cfg.InitialTemperature) > rng.Float64() {
			state.Move(v, dest)
			if hasSwap {
				state.Move(swapVertex, home)
			}
			accepted++
		}
	}

	state.assertValid()
	logrus.Infof("annealing finished after %d iterations (%d accepted): cost=%d",
		cfg.Iterations, accepted, state.Cost())
	return nil
}

// randomOtherServer picks a uniformly random server different from home.
func randomOtherServer(rng *rand.Rand, servers []Server, home Server) Server {
	idx := rng.Intn(len(servers) - 1)
	for i, srv := range servers {
		if srv == home {
			continue
		}
		if idx == 0 {
			return servers[i]
		}
		idx--
	}
	panic("randomOtherServer: home server not in server list")
}
