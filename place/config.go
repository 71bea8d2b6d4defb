package place

import "fmt"

// Default search parameters.
const (
	DefaultIterations         = 10000
	DefaultNumRounds          = 1000
	DefaultStopParameter      = 0.05
	DefaultCacheLimit         = 5
	DefaultInitialTemperature = 3.0
)

// RefineConfig holds the parameters of local-search refinement.
type RefineConfig struct {
	// NumRounds bounds the number of label-propagation rounds.
	NumRounds int
	// StopParameter stops refinement early once the fraction of frontier
	// vertices moved in a round falls below it. In [0,1].
	StopParameter float64
	// ReallocateAnchors allows anchor vertices to move during rounds.
	// Capacity repair moves anchors regardless.
	ReallocateAnchors bool
	// AcceptZeroGain counts zero-gain relocations as moves. This matches the
	// historical behaviour and affects convergence, not final validity.
	AcceptZeroGain bool
}

// DefaultRefineConfig returns the standard refinement parameters.
func DefaultRefineConfig() RefineConfig {
	return RefineConfig{
		NumRounds:         DefaultNumRounds,
		StopParameter:     DefaultStopParameter,
		ReallocateAnchors: true,
		AcceptZeroGain:    true,
	}
}

// Validate checks parameter ranges.
func (c RefineConfig) Validate() error {
	if c.NumRounds < 0 {
		return fmt.Errorf("num_rounds must be non-negative, got %d", c.NumRounds)
	}
	if c.StopParameter < 0 || c.StopParameter > 1 {
		return fmt.Errorf("stop_parameter must be in [0,1], got %f", c.StopParameter)
	}
	return nil
}

// AnnealConfig holds the parameters of the simulated-annealing search.
type AnnealConfig struct {
	// Iterations is the number of annealing steps.
	Iterations int
	// InitialTemperature is T0 in the cooling schedule T = T0/(i+1).
	InitialTemperature float64
}

// DefaultAnnealConfig returns the standard annealing parameters.
func DefaultAnnealConfig() AnnealConfig {
	return AnnealConfig{
		Iterations:         DefaultIterations,
		InitialTemperature: DefaultInitialTemperature,
	}
}

// Validate checks parameter ranges.
func (c AnnealConfig) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", c.Iterations)
	}
	if c.InitialTemperature <= 0 {
		return fmt.Errorf("initial_temperature must be positive, got %f", c.InitialTemperature)
	}
	return nil
}
