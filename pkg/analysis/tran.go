package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"kirchhoff/internal/consts"
	"kirchhoff/pkg/circuit"
	"kirchhoff/pkg/util"
)

// Transient integrates the circuit's mixed algebraic/differential system
// from t=0 to the stop time. The solve window is partitioned at every
// scheduled event time; each segment re-derives the wire classification and
// the law equations before integrating, so events may freely rewire the
// topology.
type Transient struct {
	ckt        *circuit.Circuit
	stopTime   float64
	resolution int
	substeps   int

	// ShuffleSeed, when nonzero, randomizes the wire ordering used to pack
	// the state vector. The computed series must not depend on that order;
	// the knob exists only to surface order-dependent bugs in tests.
	ShuffleSeed int64

	results map[string][]float64
}

var _ Analysis = (*Transient)(nil)

// NewTransient creates a stepper for [0, stopTime] with a total budget of
// resolution samples, distributed over segments in proportion to their
// share of the window.
func NewTransient(stopTime float64, resolution int) *Transient {
	return &Transient{
		stopTime:   stopTime,
		resolution: resolution,
		substeps:   consts.DefaultSubsteps,
		results:    make(map[string][]float64),
	}
}

func (tr *Transient) Setup(ckt *circuit.Circuit) error {
	if tr.stopTime <= 0 {
		return fmt.Errorf("stop time must be positive, got %g", tr.stopTime)
	}
	if tr.resolution < consts.MinSegmentSamples {
		return fmt.Errorf("resolution must be at least %d, got %d", consts.MinSegmentSamples, tr.resolution)
	}
	tr.ckt = ckt
	return nil
}

func (tr *Transient) Execute() error {
	ckt := tr.ckt
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}

	if err := ckt.Classify(); err != nil {
		return err
	}
	wires := tr.orderedWires()

	for _, seg := range ckt.Segments(tr.stopTime) {
		grid := tr.segmentGrid(seg)
		if len(grid) > 0 {
			ckt.T = append(ckt.T, grid...)
			if err := tr.integrateSegment(wires, grid); err != nil {
				return fmt.Errorf("segment [%g, %g]: %w", seg.Start, seg.End, err)
			}
		}

		for _, fn := range seg.Events {
			fn()
		}

		// Events may have rewired the topology.
		if err := ckt.Classify(); err != nil {
			return err
		}
		wires = tr.orderedWires()
	}

	dt := tr.stopTime / float64(tr.resolution-1)
	ckt.InitGroundPotential()
	ckt.PropagatePotentials()
	ckt.DeriveQuantities(dt)
	tr.collectResults()

	return nil
}

// orderedWires returns the effective wires in the packing order used for the
// next segment: creation order, or a seeded shuffle when fuzzing.
func (tr *Transient) orderedWires() []*circuit.Wire {
	effective := tr.ckt.EffectiveWires()
	wires := make([]*circuit.Wire, len(effective))
	copy(wires, effective)
	if tr.ShuffleSeed != 0 {
		rng := rand.New(rand.NewSource(tr.ShuffleSeed))
		rng.Shuffle(len(wires), func(i, j int) { wires[i], wires[j] = wires[j], wires[i] })
	}
	return wires
}

// segmentGrid allocates the segment's share of the total sample budget,
// inclusive of both endpoints. A zero-length segment gets no grid.
func (tr *Transient) segmentGrid(seg circuit.Segment) []float64 {
	span := seg.End - seg.Start
	if span <= 0 {
		return nil
	}
	steps := int(math.Round(float64(tr.resolution) * span / tr.stopTime))
	if steps < consts.MinSegmentSamples {
		steps = consts.MinSegmentSamples
	}
	grid := make([]float64, steps)
	for i := range grid {
		grid[i] = seg.Start + span*float64(i)/float64(steps-1)
	}
	return grid
}

func (tr *Transient) integrateSegment(wires []*circuit.Wire, grid []float64) error {
	ckt := tr.ckt

	first, err := ckt.FirstLawEquations()
	if err != nil {
		return err
	}
	second, err := ckt.SecondLawEquations()
	if err != nil {
		return err
	}

	if len(first) > 0 && len(second) > 0 {
		deriv, err := newDerivative(wires, first, second)
		if err != nil {
			return err
		}
		defer deriv.destroy()

		state := make([]float64, 0, deriv.stateSize())
		for _, w := range wires {
			state = append(state, w.LastCharge())
			if w.Inductive() {
				state = append(state, w.LastCurrent())
			}
		}

		solution, err := util.IntegrateRK4(deriv.eval, state, grid, tr.substeps)
		if err != nil {
			return err
		}

		// Store charge from the integrated state and current / current rate
		// from the derivative at each sample.
		for k, t := range grid {
			rates, err := deriv.eval(t, solution[k])
			if err != nil {
				return err
			}
			for _, w := range wires {
				off := deriv.off[w.ID()]
				w.Q = append(w.Q, solution[k][off])
				w.DqDt = append(w.DqDt, rates[off])
				if w.Inductive() {
					w.D2qDt2 = append(w.D2qDt2, rates[off+1])
				}
			}
		}
	}

	// Null wires are not integrated: charge holds, current is zero.
	for _, w := range ckt.NullWires() {
		q := w.LastCharge()
		for range grid {
			w.Q = append(w.Q, q)
			w.DqDt = append(w.DqDt, 0)
			if w.Inductive() {
				w.D2qDt2 = append(w.D2qDt2, 0)
			}
		}
	}

	return nil
}

// collectResults assembles the results map: TIME, per-wire charge Q(name)
// and current I(name), and per-junction potential V(name) for junctions
// reachable from the reference.
func (tr *Transient) collectResults() {
	ckt := tr.ckt
	n := len(ckt.T)

	tr.results["TIME"] = ckt.T
	for _, w := range ckt.Wires() {
		tr.results[fmt.Sprintf("Q(%s)", w.Name())] = w.Q
		tr.results[fmt.Sprintf("I(%s)", w.Name())] = w.DqDt
	}
	for _, j := range ckt.Junctions() {
		if len(j.Potential) == n {
			tr.results[fmt.Sprintf("V(%s)", j.Name())] = j.Potential
		}
	}
}

func (tr *Transient) Results() map[string][]float64 {
	return tr.results
}
