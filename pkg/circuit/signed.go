package circuit

import "fmt"

// Sign is the direction a wire is traversed relative to its own orientation:
// Plus from its start terminal, Minus from its end terminal.
type Sign int

const (
	Minus Sign = -1
	Zero  Sign = 0
	Plus  Sign = 1
)

// SignedWires is an ordered, duplicate-free collection of wires, each tagged
// with a traversal sign. It represents both a discovered loop and a single
// Kirchhoff law equation.
type SignedWires struct {
	wires []*Wire
	signs []Sign
	index map[int64]int // wire id -> position
}

func NewSignedWires() *SignedWires {
	return &SignedWires{index: make(map[int64]int)}
}

// Copy returns a shallow copy: the collection structure is duplicated, the
// wires themselves are shared.
func (sw *SignedWires) Copy() *SignedWires {
	c := &SignedWires{
		wires: make([]*Wire, len(sw.wires)),
		signs: make([]Sign, len(sw.signs)),
		index: make(map[int64]int, len(sw.index)),
	}
	copy(c.wires, sw.wires)
	copy(c.signs, sw.signs)
	for id, pos := range sw.index {
		c.index[id] = pos
	}
	return c
}

func (sw *SignedWires) Append(w *Wire, sign Sign) error {
	if _, ok := sw.index[w.id]; ok {
		return fmt.Errorf("wire %q: %w", w.name, ErrDuplicateWire)
	}
	sw.index[w.id] = len(sw.wires)
	sw.wires = append(sw.wires, w)
	sw.signs = append(sw.signs, sign)
	return nil
}

// pop removes the most recently appended wire. Used by the loop finder when
// backtracking.
func (sw *SignedWires) pop() {
	if len(sw.wires) == 0 {
		return
	}
	last := sw.wires[len(sw.wires)-1]
	delete(sw.index, last.id)
	sw.wires = sw.wires[:len(sw.wires)-1]
	sw.signs = sw.signs[:len(sw.signs)-1]
}

func (sw *SignedWires) Len() int { return len(sw.wires) }

// Wires returns the collection in traversal order. The slice is owned by the
// collection and must not be mutated.
func (sw *SignedWires) Wires() []*Wire { return sw.wires }

func (sw *SignedWires) Contains(w *Wire) bool {
	_, ok := sw.index[w.id]
	return ok
}

// SignOf returns the traversal sign of w, or Zero when w is not in the
// collection.
func (sw *SignedWires) SignOf(w *Wire) Sign {
	pos, ok := sw.index[w.id]
	if !ok {
		return Zero
	}
	return sw.signs[pos]
}
