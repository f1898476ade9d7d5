package consts

const (
	// DefaultSubsteps is the number of internal Runge-Kutta steps taken
	// between consecutive output samples.
	DefaultSubsteps = 4

	// MinSegmentSamples is the smallest time grid allocated to a non-empty
	// integration segment.
	MinSegmentSamples = 2
)
