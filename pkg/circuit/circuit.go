package circuit

import (
	"sort"

	"kirchhoff/pkg/device"
)

// EventFunc is a scheduled callback. It may mutate the topology (toggle
// switches, change source values); the stepper re-derives classification and
// law equations after it runs. Capture arguments in the closure.
type EventFunc func()

// Circuit owns the full set of wires and junctions, the event schedule, and
// the shared time axis produced by solving. The earth junction exists from
// construction and is the zero-potential reference.
type Circuit struct {
	name string

	earth     *Junction
	wires     []*Wire
	wireSeen  map[int64]bool
	junctions []*Junction
	juncSeen  map[int64]bool

	events map[float64][]EventFunc

	effective []*Wire
	null      []*Wire
	nullSet   map[int64]bool

	// T is the shared time axis, grown segment by segment while solving.
	// Segment grids include both endpoints, so each event time appears
	// twice: once as the tail of one segment and once as the head of the
	// next.
	T []float64
}

func New(name string) *Circuit {
	c := &Circuit{
		name:     name,
		wireSeen: make(map[int64]bool),
		juncSeen: make(map[int64]bool),
		events:   make(map[float64][]EventFunc),
		nullSet:  make(map[int64]bool),
	}
	c.earth = newEarth()
	c.addJunction(c.earth)
	return c
}

func (c *Circuit) Name() string { return c.name }

// Ground returns the reference junction whose potential is identically zero.
func (c *Circuit) Ground() *Junction { return c.earth }

// GroundWire creates a wire with one terminal already connected to the
// reference junction.
func (c *Circuit) GroundWire(name string, resistance device.Value) *Wire {
	w := NewWire(name, resistance)
	// A fresh wire always has a free terminal.
	_ = c.Connect(c.earth, w)
	return w
}

func (c *Circuit) addJunction(j *Junction) {
	if c.juncSeen[j.id] {
		return
	}
	c.juncSeen[j.id] = true
	c.junctions = append(c.junctions, j)
}

func (c *Circuit) addWire(w *Wire) {
	if c.wireSeen[w.id] {
		return
	}
	c.wireSeen[w.id] = true
	c.wires = append(c.wires, w)
}

// Connect wires the junction and the given wires together bidirectionally:
// the junction records each wire, each wire records the junction as its next
// free terminal. Both are registered with the circuit.
func (c *Circuit) Connect(j *Junction, wires ...*Wire) error {
	c.addJunction(j)
	for _, w := range wires {
		if err := w.connect(j); err != nil {
			return err
		}
		c.addWire(w)
	}
	j.connect(wires)
	return nil
}

func (c *Circuit) Wires() []*Wire         { return c.wires }
func (c *Circuit) Junctions() []*Junction { return c.junctions }

// AddEvent schedules fn to run at simulation time t. Multiple callbacks may
// share a timestamp; they run in registration order.
func (c *Circuit) AddEvent(t float64, fn EventFunc) {
	c.events[t] = append(c.events[t], fn)
}

// Segment is a sub-interval of the solve window, delimited by scheduled
// event times. Events fire once integration has reached End.
type Segment struct {
	Start, End float64
	Events     []EventFunc
}

// Segments partitions [0, end] at every distinct event time <= end, in
// ascending order. The final segment always ends at end and carries no
// events.
func (c *Circuit) Segments(end float64) []Segment {
	times := make([]float64, 0, len(c.events))
	for t := range c.events {
		if t <= end {
			times = append(times, t)
		}
	}
	sort.Float64s(times)

	segs := make([]Segment, 0, len(times)+1)
	start := 0.0
	for _, t := range times {
		segs = append(segs, Segment{Start: start, End: t, Events: c.events[t]})
		start = t
	}
	return append(segs, Segment{Start: start, End: end})
}

// Classify partitions the wires into effective wires (non-null and part of
// at least one closed loop) and null wires. It must be re-run after any
// topology mutation, before law equations are rebuilt.
func (c *Circuit) Classify() error {
	c.effective = c.effective[:0]
	c.null = c.null[:0]
	clear(c.nullSet)

	for _, w := range c.wires {
		if w.IsNull() {
			c.null = append(c.null, w)
			c.nullSet[w.id] = true
			continue
		}
		loops, err := c.Loops(w)
		if err != nil {
			return err
		}
		if len(loops) == 0 {
			// Live but loop-free: cannot carry current in loop analysis.
			c.null = append(c.null, w)
			c.nullSet[w.id] = true
			continue
		}
		c.effective = append(c.effective, w)
	}
	return nil
}

// EffectiveWires returns the wires that participate in current flow, as of
// the last Classify.
func (c *Circuit) EffectiveWires() []*Wire { return c.effective }

// NullWires returns the electrically inert wires, as of the last Classify.
func (c *Circuit) NullWires() []*Wire { return c.null }
