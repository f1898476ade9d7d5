package circuit

import "fmt"

// Loops returns every simple closed loop through seed. The walk starts at
// the seed's end terminal and records a loop each time it reaches the seed's
// start terminal, never revisiting a junction already on the current path.
// The seed is tagged Plus; every traversed wire is tagged Plus when entered
// from its own start terminal, Minus when entered from its end terminal.
//
// The search is depth-first with an explicit stack, so path length is
// bounded by the junction count rather than the goroutine stack.
func (c *Circuit) Loops(seed *Wire) ([]*SignedWires, error) {
	if seed.IsNull() {
		return nil, fmt.Errorf("loops through wire %q: %w", seed.name, ErrNullWire)
	}

	endpoint := seed.start

	path := NewSignedWires()
	if err := path.Append(seed, Plus); err != nil {
		return nil, err
	}

	type frame struct {
		junction *Junction
		wires    []*Wire
		next     int
	}

	var loops []*SignedWires
	onPath := map[int64]bool{seed.end.id: true}
	stack := []frame{{junction: seed.end, wires: seed.end.OtherWires(seed)}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next >= len(f.wires) {
			// Exhausted this junction: backtrack.
			stack = stack[:len(stack)-1]
			delete(onPath, f.junction.id)
			path.pop()
			continue
		}
		w := f.wires[f.next]
		f.next++

		if w.IsNull() {
			continue
		}

		var sign Sign
		switch {
		case w.start != nil && w.start.id == f.junction.id:
			sign = Plus
		case w.end != nil && w.end.id == f.junction.id:
			sign = Minus
		default:
			return nil, fmt.Errorf("wire %q at junction %q: %w", w.name, f.junction.name, ErrSignUnknown)
		}

		next, err := w.OtherJunction(f.junction)
		if err != nil {
			return nil, err
		}

		if next.id == endpoint.id {
			loop := path.Copy()
			if err := loop.Append(w, sign); err != nil {
				return nil, err
			}
			loops = append(loops, loop)
			continue
		}
		if onPath[next.id] {
			continue
		}

		if err := path.Append(w, sign); err != nil {
			return nil, err
		}
		onPath[next.id] = true
		stack = append(stack, frame{junction: next, wires: next.OtherWires(w)})
	}

	return loops, nil
}
