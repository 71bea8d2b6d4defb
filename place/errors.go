package place

import "errors"

var (
	// ErrInfeasibleNetwork indicates the network cannot possibly host all
	// anchor vertices: total capacity is smaller than the anchor count.
	ErrInfeasibleNetwork = errors.New("network capacity is too small for the hypergraph")

	// ErrInvalidPlacement indicates a placement that is not total over the
	// hypergraph's vertices or maps to servers not in the network.
	ErrInvalidPlacement = errors.New("placement is not valid for this hypergraph and network")

	// ErrNoValidPlacement indicates an exhaustive search found no placement
	// satisfying the capacity constraints.
	ErrNoValidPlacement = errors.New("no valid placement could be found")

	// ErrStateFrozen indicates a search was requested on state that has been
	// frozen by an irrevocable hyperedge commitment.
	ErrStateFrozen = errors.New("optimizer state is frozen after a hyperedge commitment")
)
