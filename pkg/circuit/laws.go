package circuit

import (
	"slices"
	"strconv"
	"strings"
)

// comboSet tracks the candidate wire sets already spent on first-law
// equations, closed under pairwise symmetric difference. A candidate equal
// to any tracked set is linearly dependent on the accepted equations.
type comboSet struct {
	sets []map[int64]bool
	keys map[string]bool
}

func newComboSet() *comboSet {
	return &comboSet{keys: make(map[string]bool)}
}

func comboKey(set map[int64]bool) string {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteByte(',')
	}
	return sb.String()
}

func idSet(wires []*Wire) map[int64]bool {
	set := make(map[int64]bool, len(wires))
	for _, w := range wires {
		set[w.id] = true
	}
	return set
}

func (cs *comboSet) has(wires []*Wire) bool {
	return cs.keys[comboKey(idSet(wires))]
}

func (cs *comboSet) insert(set map[int64]bool) {
	key := comboKey(set)
	if cs.keys[key] {
		return
	}
	cs.keys[key] = true
	cs.sets = append(cs.sets, set)
}

// add accepts a candidate set and extends the closure with the symmetric
// difference of the new set against every tracked set.
func (cs *comboSet) add(wires []*Wire) {
	set := idSet(wires)
	cs.insert(set)
	for _, prev := range slices.Clone(cs.sets) {
		cs.insert(symmetricDifference(prev, set))
	}
}

func symmetricDifference(a, b map[int64]bool) map[int64]bool {
	diff := make(map[int64]bool)
	for id := range a {
		if !b[id] {
			diff[id] = true
		}
	}
	for id := range b {
		if !a[id] {
			diff[id] = true
		}
	}
	return diff
}

// FirstLawEquations selects current-conservation equations: one per junction
// of effective degree >= 2 whose candidate wire set is not derivable from
// previously accepted sets. At a junction mixing inductive and non-inductive
// wires, the inductive ones are left out of the candidate set -- their
// currents are integrated state, not unknowns at the junction. The equation
// itself still sums every incident effective wire.
//
// The symmetric-difference check approximates linear independence over the
// edge set; on graphs with overlapping multi-loops it can mis-select. An
// incidence-matrix rank test would be the exact replacement. Any
// mis-selection surfaces as a non-square system before integration.
func (c *Circuit) FirstLawEquations() ([]*SignedWires, error) {
	var equations []*SignedWires
	combos := newComboSet()

	for _, j := range c.junctions {
		wires := make([]*Wire, 0, len(j.wires))
		for _, w := range j.wires {
			if !c.nullSet[w.id] {
				wires = append(wires, w)
			}
		}
		if len(wires) <= 1 {
			continue
		}

		candidates := wires
		if !allInductive(wires) {
			candidates = make([]*Wire, 0, len(wires))
			for _, w := range wires {
				if !w.Inductive() {
					candidates = append(candidates, w)
				}
			}
		}

		if combos.has(candidates) {
			continue
		}
		combos.add(candidates)

		eq := NewSignedWires()
		for _, w := range wires {
			sign := Minus
			if w.start != nil && w.start.id == j.id {
				sign = Plus
			}
			if err := eq.Append(w, sign); err != nil {
				return nil, err
			}
		}
		equations = append(equations, eq)
	}

	return equations, nil
}

func allInductive(wires []*Wire) bool {
	for _, w := range wires {
		if !w.Inductive() {
			return false
		}
	}
	return true
}

// SecondLawEquations greedily selects loop-voltage equations: every loop
// through every effective wire is accepted unless its wires are already
// fully covered by accepted equations. Every effective wire ends up covered
// by at least one equation.
func (c *Circuit) SecondLawEquations() ([]*SignedWires, error) {
	var equations []*SignedWires
	covered := make(map[int64]bool)

	for _, seed := range c.effective {
		loops, err := c.Loops(seed)
		if err != nil {
			return nil, err
		}
		for _, loop := range loops {
			if allCovered(loop, covered) {
				continue
			}
			for _, w := range loop.Wires() {
				covered[w.id] = true
			}
			equations = append(equations, loop)
		}
	}

	return equations, nil
}

func allCovered(loop *SignedWires, covered map[int64]bool) bool {
	for _, w := range loop.Wires() {
		if !covered[w.id] {
			return false
		}
	}
	return true
}
