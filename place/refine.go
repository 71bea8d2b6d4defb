package place

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
)

// Refine improves the placement managed by state with capacity repair
// followed by label-propagation rounds, and reports whether any change was
// made. It is greedy and cannot escape local optima: the assumption is that
// the initial partitioner already grouped vertices well and the network has
// short average distance, so only the boundary of the partition needs work.
//
// The state's placement may violate capacities on entry; it never does on
// return. All randomness (visit order, tie-breaks, swap-partner choice) is
// drawn from rng.
func Refine(state *OptimizerState, cfg RefineConfig, rng *rand.Rand) (bool, error) {
	if state.Frozen() {
		return false, ErrStateFrozen
	}
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	repaired := repairCapacity(state)

	hg := state.Distribution().Hypergraph
	placement := state.Distribution().Placement

	changed := repaired
	proportionMoved := 1.0
	round := 0
	for round < cfg.NumRounds && proportionMoved > cfg.StopParameter {
		frontier := hg.Boundary(placement)
		if !cfg.ReallocateAnchors {
			kept := frontier[:0]
			for _, v := range frontier {
				if !hg.IsAnchor(v) {
					kept = append(kept, v)
				}
			}
			frontier = kept
		}
		rng.Shuffle(len(frontier), func(i, j int) {
			frontier[i], frontier[j] = frontier[j], frontier[i]
		})

		moves := 0
		for _, v := range frontier {
			if visitVertex(state, cfg, rng, v) {
				moves++
				changed = true
			}
		}

		round++
		if len(frontier) == 0 {
			proportionMoved = 0
		} else {
			proportionMoved = float64(moves) / float64(len(frontier))
		}
		logrus.Debugf("refine round %d: frontier=%d moves=%d cost=%d",
			round, len(frontier), moves, state.Cost())
	}

	state.assertValid()
	logrus.Infof("refinement finished after %d rounds: cost=%d", round, state.Cost())
	return changed, nil
}

// repairCapacity moves every anchor vertex sitting on an over-full server to
// the first server with spare capacity, without computing gains. The moved
// vertices end up on the boundary, so subsequent rounds will reallocate them
// by gain anyway. Reports whether any vertex moved.
func repairCapacity(state *OptimizerState) bool {
	moved := false
	for _, v := range state.Distribution().Hypergraph.Vertices() {
		if !state.Distribution().Hypergraph.IsAnchor(v) {
			continue
		}
		// Moving in place being invalid means the current server is over
		// capacity.
		if state.IsMoveValid(v, state.CurrentServer(v)) {
			continue
		}
		for _, srv := range state.Distribution().Network.Servers() {
			if state.IsMoveValid(v, srv) {
				state.Move(v, srv)
				moved = true
				break
			}
		}
	}
	return moved
}

// visitVertex evaluates all candidate servers for v and applies the best
// (server, optional swap) pair. Reports whether v (and possibly a swap
// partner) moved.
func visitVertex(state *OptimizerState, cfg RefineConfig, rng *rand.Rand, v Vertex) bool {
	hg := state.Distribution().Hypergraph
	current := state.CurrentServer(v)

	// Only servers hosting a neighbour are worth considering: any other
	// server contains no pins of v's hyperedges, so its gain is dominated.
	// Staying put is always a candidate.
	candidateSet := map[Server]struct{}{current: {}}
	for _, u := range hg.Neighbours(v) {
		candidateSet[state.CurrentServer(u)] = struct{}{}
	}
	candidates := make([]Server, 0, len(candidateSet))
	for srv := range candidateSet {
		candidates = append(candidates, srv)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	bestServer := current
	bestGain := 0 // gain of staying put
	haveBest := false
	var bestSwap Vertex
	bestHasSwap := false

	for _, srv := range candidates {
		gain := state.Gain(v, srv)
		swapVertex := Vertex(0)
		hasSwap := false

		if !state.IsMoveValid(v, srv) {
			// The target is full: find the anchor in srv whose move back to
			// v's server compensates best. The probe move makes the partner
			// gains exact; it is undone before any other cache read.
			partners := anchorsIn(state, srv)
			if len(partners) == 0 {
				continue
			}
			swapGain := 0
			state.WithTrialMove(v, srv, func() {
				first := true
				for _, partner := range partners {
					g := state.Gain(partner, current)
					if first || g > swapGain || (g == swapGain && rng.Intn(2) == 0) {
						swapGain = g
						swapVertex = partner
						first = false
					}
				}
			})
			hasSwap = true
			gain += swapGain
		}

		if !haveBest || gain > bestGain || (gain == bestGain && rng.Intn(2) == 0) {
			haveBest = true
			bestGain = gain
			bestServer = srv
			bestSwap = swapVertex
			bestHasSwap = hasSwap
		}
	}

	if bestServer == current {
		return false
	}
	if !cfg.AcceptZeroGain && bestGain <= 0 {
		return false
	}

	state.Move(v, bestServer)
	if bestHasSwap {
		// The move was over capacity; the paired swap restores validity.
		state.Move(bestSwap, current)
	}
	return true
}

// anchorsIn returns the anchor vertices currently placed on srv, in
// increasing order.
func anchorsIn(state *OptimizerState, srv Server) []Vertex {
	hg := state.Distribution().Hypergraph
	var anchors []Vertex
	for _, u := range state.Distribution().Placement.VerticesIn(srv) {
		if hg.IsAnchor(u) {
			anchors = append(anchors, u)
		}
	}
	return anchors
}
