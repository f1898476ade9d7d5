package circuit

import (
	"fmt"
	"sync/atomic"

	"kirchhoff/pkg/device"
)

// ids are opaque handles assigned at creation. All membership and equality
// checks in the package compare ids, never pointers.
var idCounter atomic.Int64

func nextID() int64 { return idCounter.Add(1) }

// JunctionKind distinguishes the single reference (earth) junction from
// regular junctions.
type JunctionKind int

const (
	RegularJunction JunctionKind = iota
	EarthJunction
)

// Junction is an ownership-free aggregation point joining wires. A junction
// with fewer than two incident wires makes every incident wire electrically
// inert.
type Junction struct {
	id       int64
	name     string
	kind     JunctionKind
	wires    []*Wire
	incident map[int64]bool

	// Potential relative to earth, one sample per entry of the circuit's
	// time axis. Filled by the post-processor after solving.
	Potential []float64
}

func NewJunction(name string) *Junction {
	return &Junction{id: nextID(), name: name, incident: make(map[int64]bool)}
}

func newEarth() *Junction {
	j := NewJunction("earth")
	j.kind = EarthJunction
	return j
}

func (j *Junction) ID() int64          { return j.id }
func (j *Junction) Name() string       { return j.name }
func (j *Junction) Kind() JunctionKind { return j.kind }
func (j *Junction) IsEarth() bool      { return j.kind == EarthJunction }

func (j *Junction) connect(wires []*Wire) {
	for _, w := range wires {
		if j.incident[w.id] {
			continue
		}
		j.incident[w.id] = true
		j.wires = append(j.wires, w)
	}
}

// Wires returns the incident wires in connection order.
func (j *Junction) Wires() []*Wire { return j.wires }

func (j *Junction) Degree() int { return len(j.wires) }

func (j *Junction) IsNull() bool     { return len(j.wires) == 0 }
func (j *Junction) IsSingular() bool { return len(j.wires) == 1 }

// OtherWires returns the incident wires except w.
func (j *Junction) OtherWires(w *Wire) []*Wire {
	others := make([]*Wire, 0, len(j.wires))
	for _, jw := range j.wires {
		if jw.id != w.id {
			others = append(others, jw)
		}
	}
	return others
}

// Wire is a two-terminal branch. Its electrical behavior is the series
// composition of the attached component relations; absent components are
// zero values and contribute nothing. The accumulated time series grow in
// lock-step with the owning circuit's time axis while solving.
type Wire struct {
	id   int64
	name string

	Switch       *device.Switch
	Resistor     *device.Resistor
	Battery      *device.Battery
	ACBattery    *device.ACBattery
	Capacitor    *device.Capacitor
	Inductor     *device.Inductor
	Galvanometer *device.Galvanometer
	Ammeter      *device.Ammeter
	Voltmeter    *device.Voltmeter

	start *Junction
	end   *Junction

	// State series.
	Q      []float64 // charge
	DqDt   []float64 // current
	D2qDt2 []float64 // current rate; filled only for inductive wires

	// Derived series, filled by the post-processor.
	PotentialDrop []float64
	EqResistance  []float64
	EqCapacitance []float64
	EqInductance  []float64

	Power []float64
	Heat  []float64

	InductorEnergy  []float64
	CapacitorEnergy []float64

	GalvanometerReading []float64
	AmmeterReading      []float64
	VoltmeterReading    []float64
}

// NewWire creates a wire with the given series resistance and no other
// components. Attach sources, reactive elements and meters by replacing the
// corresponding fields before solving.
func NewWire(name string, resistance device.Value) *Wire {
	return &Wire{
		id:           nextID(),
		name:         name,
		Switch:       device.NewSwitch(),
		Resistor:     device.NewResistor(resistance),
		Battery:      &device.Battery{},
		ACBattery:    &device.ACBattery{},
		Capacitor:    &device.Capacitor{},
		Inductor:     &device.Inductor{},
		Galvanometer: &device.Galvanometer{},
		Ammeter:      &device.Ammeter{},
		Voltmeter:    &device.Voltmeter{},
	}
}

func (w *Wire) ID() int64    { return w.id }
func (w *Wire) Name() string { return w.name }

func (w *Wire) StartJunction() *Junction { return w.start }
func (w *Wire) EndJunction() *Junction   { return w.end }

// connect assigns the next free terminal. A wire has exactly two.
func (w *Wire) connect(j *Junction) error {
	switch {
	case w.start == nil:
		w.start = j
	case w.end == nil:
		w.end = j
	default:
		return fmt.Errorf("connecting wire %q to junction %q: %w", w.name, j.name, ErrThirdTerminal)
	}
	return nil
}

// SwapJunctions flips the wire's orientation.
func (w *Wire) SwapJunctions() {
	w.start, w.end = w.end, w.start
}

// OtherJunction returns the terminal opposite j.
func (w *Wire) OtherJunction(j *Junction) (*Junction, error) {
	switch {
	case w.start != nil && w.start.id == j.id:
		return w.end, nil
	case w.end != nil && w.end.id == j.id:
		return w.start, nil
	}
	return nil, fmt.Errorf("junction %q, wire %q: %w", j.name, w.name, ErrNotIncident)
}

// IsNull reports whether the wire is electrically inert: open switch, a
// missing terminal, or a terminal of degree <= 1.
func (w *Wire) IsNull() bool {
	return w.Switch.IsOpen() ||
		w.start == nil || w.end == nil ||
		w.start.IsSingular() || w.end.IsSingular()
}

// Inductive reports whether the wire carries an inductor, making its current
// an independent state variable.
func (w *Wire) Inductive() bool { return w.Inductor.Present() }

// NetResistance is the series sum of the resistor and every inserted meter's
// internal resistance.
func (w *Wire) NetResistance(t float64) float64 {
	return w.Resistor.Resistance(t) +
		w.Galvanometer.Resistance(t) +
		w.Ammeter.Resistance(t) +
		w.Voltmeter.Resistance(t)
}

// potentialDropAt evaluates the wire's instantaneous drop at sample i of the
// shared time axis: emf + ac emf - resistive drop - capacitor drop, minus the
// inductor drop when present.
func (w *Wire) potentialDropAt(t float64, i int) float64 {
	drop := w.Battery.EMF(t) + w.ACBattery.EMF(t) -
		w.DqDt[i]*w.NetResistance(t) -
		w.Capacitor.Drop(t, w.Q[i])
	if w.Inductive() {
		drop -= w.Inductor.Drop(t, w.D2qDt2[i])
	}
	return drop
}

// LastCharge is the most recent charge sample, or the capacitor's declared
// initial charge before the first integration.
func (w *Wire) LastCharge() float64 {
	if len(w.Q) > 0 {
		return w.Q[len(w.Q)-1]
	}
	return w.Capacitor.InitCharge()
}

// LastCurrent is the most recent current sample, or zero before the first
// integration.
func (w *Wire) LastCurrent() float64 {
	if len(w.DqDt) > 0 {
		return w.DqDt[len(w.DqDt)-1]
	}
	return 0
}
