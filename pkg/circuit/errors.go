package circuit

import "errors"

// Structural faults. All of these indicate a broken or misused topology and
// abort the simulation.
var (
	// ErrNullWire is returned when loops are requested from a null wire.
	ErrNullWire = errors.New("wire is null")

	// ErrDuplicateWire is returned when a wire is appended twice to the same
	// signed collection.
	ErrDuplicateWire = errors.New("wire already present in collection")

	// ErrSignUnknown is returned when a traversal sign cannot be deduced,
	// which means the junction/wire cross-references are corrupt.
	ErrSignUnknown = errors.New("traversal sign could not be deduced")

	// ErrThirdTerminal is returned when a third junction is assigned to a
	// two-terminal wire.
	ErrThirdTerminal = errors.New("wire already has both terminals connected")

	// ErrNotIncident is returned when a junction is asked about a wire it is
	// not a terminal of, or vice versa.
	ErrNotIncident = errors.New("junction is not a terminal of wire")
)
