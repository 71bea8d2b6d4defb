package place

import (
	"hash/fnv"
	"math/rand"
)

// SearchKey uniquely identifies a reproducible optimization run. Two runs
// with the same SearchKey and identical configuration MUST produce identical
// placements; no other source of nondeterminism (such as map iteration
// order) may influence outcomes.
type SearchKey int64

// NewSearchKey creates a SearchKey from a seed value.
func NewSearchKey(seed int64) SearchKey {
	return SearchKey(seed)
}

// RNG subsystem names. Each stochastic component draws from its own
// deterministically-derived stream so that, for example, adding iterations
// to the annealer does not perturb the initial partition.
const (
	// SubsystemPartition is the RNG stream for initial partitioners.
	SubsystemPartition = "partition"

	// SubsystemRefine is the RNG stream for local-search refinement
	// (visit order, tie-breaks, swap-partner selection).
	SubsystemRefine = "refine"

	// SubsystemAnneal is the RNG stream for simulated annealing.
	SubsystemAnneal = "anneal"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem, derived from one master seed as masterSeed XOR fnv1a64(name).
//
// Thread-safety: NOT thread-safe. The engine is single-threaded.
type PartitionedRNG struct {
	key        SearchKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SearchKey.
func NewPartitionedRNG(key SearchKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SearchKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SearchKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
