package analysis

import "kirchhoff/pkg/circuit"

// Analysis is one simulation pass over a fully wired circuit.
type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	Results() map[string][]float64
}
