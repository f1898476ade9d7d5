package analysis

import (
	"fmt"

	"kirchhoff/pkg/circuit"
	"kirchhoff/pkg/matrix"
)

// derivative converts instantaneous state into state rates by assembling and
// solving the square linear system R·x = V over one unknown per effective
// wire: the wire's current, or its current rate when the wire is inductive.
//
// State packing: each wire contributes one slot (charge), inductive wires a
// second consecutive slot (current), in wire-list order. The same ordering
// must be used for every call within one integration segment.
type derivative struct {
	wires  []*circuit.Wire
	first  []*circuit.SignedWires
	second []*circuit.SignedWires

	mat *matrix.SystemMatrix
	col map[int64]int // wire id -> unknown column (1-based)
	off map[int64]int // wire id -> state vector offset
}

func newDerivative(wires []*circuit.Wire, first, second []*circuit.SignedWires) (*derivative, error) {
	n := len(wires)
	if len(first)+len(second) != n {
		return nil, fmt.Errorf("law equations (%d first + %d second) do not form a square system over %d unknowns",
			len(first), len(second), n)
	}

	mat, err := matrix.NewSystem(n)
	if err != nil {
		return nil, err
	}

	d := &derivative{
		wires:  wires,
		first:  first,
		second: second,
		mat:    mat,
		col:    make(map[int64]int, n),
		off:    make(map[int64]int, n),
	}

	offset := 0
	for i, w := range wires {
		d.col[w.ID()] = i + 1
		d.off[w.ID()] = offset
		offset++
		if w.Inductive() {
			offset++
		}
	}

	return d, nil
}

func (d *derivative) stateSize() int {
	size := len(d.wires)
	for _, w := range d.wires {
		if w.Inductive() {
			size++
		}
	}
	return size
}

// eval is the right-hand side fed to the ODE integrator.
func (d *derivative) eval(t float64, state []float64) ([]float64, error) {
	d.mat.Clear()
	row := 1

	// First law: signed currents at a junction sum to zero. Inductive
	// currents are known state; they move to the right-hand side unless the
	// whole equation is inductive, in which case the unknowns are the
	// current rates themselves.
	for _, eq := range d.first {
		inductiveOnly := true
		for _, w := range eq.Wires() {
			if !w.Inductive() {
				inductiveOnly = false
				break
			}
		}

		for _, w := range eq.Wires() {
			sign := float64(eq.SignOf(w))
			if inductiveOnly || !w.Inductive() {
				d.mat.AddElement(row, d.col[w.ID()], sign)
			} else {
				d.mat.AddRHS(row, -sign*state[d.off[w.ID()]+1])
			}
		}
		row++
	}

	// Second law: signed drops around a loop sum to zero. Inductive wires
	// put sign·L on the current-rate unknown; non-inductive wires put
	// sign·R_net on the current unknown. Source and capacitor terms go to
	// the right-hand side.
	for _, eq := range d.second {
		for _, w := range eq.Wires() {
			sign := float64(eq.SignOf(w))
			q := state[d.off[w.ID()]]
			emf := w.Battery.EMF(t) + w.ACBattery.EMF(t)

			if w.Inductive() {
				i := state[d.off[w.ID()]+1]
				d.mat.AddElement(row, d.col[w.ID()], sign*w.Inductor.Inductance(t))
				d.mat.AddRHS(row, sign*(emf-w.Capacitor.Drop(t, q)-w.NetResistance(t)*i))
			} else {
				d.mat.AddElement(row, d.col[w.ID()], sign*w.NetResistance(t))
				d.mat.AddRHS(row, sign*(emf-w.Capacitor.Drop(t, q)))
			}
		}
		row++
	}

	solution, err := d.mat.Solve()
	if err != nil {
		return nil, fmt.Errorf("instantaneous system at t=%g: %w", t, err)
	}

	rates := make([]float64, len(state))
	for i, w := range d.wires {
		off := d.off[w.ID()]
		x := solution[i+1]
		if w.Inductive() {
			rates[off] = state[off+1] // dq/dt is the carried current
			rates[off+1] = x          // di/dt from the solve
		} else {
			rates[off] = x // dq/dt is the solved current
		}
	}
	return rates, nil
}

func (d *derivative) destroy() {
	if d.mat != nil {
		d.mat.Destroy()
	}
}
