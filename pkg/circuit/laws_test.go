package circuit

import (
	"fmt"
	"testing"

	"kirchhoff/pkg/device"
)

// assertSquare checks that the selected equations determine exactly one
// unknown per effective wire.
func assertSquare(t *testing.T, ckt *Circuit) (first, second []*SignedWires) {
	t.Helper()
	first, err := ckt.FirstLawEquations()
	if err != nil {
		t.Fatalf("FirstLawEquations: %v", err)
	}
	second, err = ckt.SecondLawEquations()
	if err != nil {
		t.Fatalf("SecondLawEquations: %v", err)
	}
	if got, want := len(first)+len(second), len(ckt.EffectiveWires()); got != want {
		t.Fatalf("equations = %d first + %d second = %d, want %d (one per wire)",
			len(first), len(second), got, want)
	}
	return first, second
}

func TestLawsSeriesRing(t *testing.T) {
	ckt, _, _ := ring(t, 4)
	if err := ckt.Classify(); err != nil {
		t.Fatal(err)
	}

	first, second := assertSquare(t, ckt)
	if len(first) != 3 {
		t.Errorf("first-law equations = %d, want 3", len(first))
	}
	if len(second) != 1 {
		t.Errorf("second-law equations = %d, want 1", len(second))
	}
}

func TestLawsParallelWires(t *testing.T) {
	ckt := New("parallel")
	a, b := NewJunction("a"), NewJunction("b")
	wires := make([]*Wire, 3)
	for i := range wires {
		wires[i] = NewWire(fmt.Sprintf("p%d", i), device.Const(1))
	}
	if err := ckt.Connect(a, wires...); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Connect(b, wires...); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Classify(); err != nil {
		t.Fatal(err)
	}

	first, second := assertSquare(t, ckt)
	// The two junctions share the same wire set; only one junction yields an
	// independent current equation.
	if len(first) != 1 {
		t.Errorf("first-law equations = %d, want 1", len(first))
	}
	if len(second) != 2 {
		t.Errorf("second-law equations = %d, want 2", len(second))
	}

	// At junction a every wire leaves through its start terminal.
	for _, w := range wires {
		if got := first[0].SignOf(w); got != Plus {
			t.Errorf("first-law sign of %s = %d, want Plus", w.Name(), got)
		}
	}
}

func TestLawsMixedInductiveJunction(t *testing.T) {
	ckt := New("rl")
	a, b := NewJunction("a"), NewJunction("b")

	coil := NewWire("coil", device.Const(1))
	coil.Inductor = device.NewInductor(device.Const(0.5))
	plain := NewWire("plain", device.Const(2))

	if err := ckt.Connect(a, coil, plain); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Connect(b, coil, plain); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Classify(); err != nil {
		t.Fatal(err)
	}

	first, second := assertSquare(t, ckt)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("equations = %d first, %d second, want 1 and 1", len(first), len(second))
	}
	// The inductive wire stays in the equation even though it was excluded
	// from the candidate set.
	if !first[0].Contains(coil) || !first[0].Contains(plain) {
		t.Error("first-law equation must sum every incident effective wire")
	}
}

func TestLawsAllInductiveJunction(t *testing.T) {
	ckt := New("ll")
	a, b := NewJunction("a"), NewJunction("b")

	wires := make([]*Wire, 2)
	for i := range wires {
		w := NewWire(fmt.Sprintf("l%d", i), device.Const(1))
		w.Inductor = device.NewInductor(device.Const(1))
		wires[i] = w
	}
	if err := ckt.Connect(a, wires...); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Connect(b, wires...); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Classify(); err != nil {
		t.Fatal(err)
	}

	first, _ := assertSquare(t, ckt)
	if len(first) != 1 {
		t.Fatalf("first-law equations = %d, want 1", len(first))
	}
}

func TestLawsWheatstoneBridge(t *testing.T) {
	ckt := New("bridge")
	a, b, c, d := NewJunction("a"), NewJunction("b"), NewJunction("c"), NewJunction("d")

	connect := func(j1, j2 *Junction, name string) *Wire {
		w := NewWire(name, device.Const(1))
		if err := ckt.Connect(j1, w); err != nil {
			t.Fatal(err)
		}
		if err := ckt.Connect(j2, w); err != nil {
			t.Fatal(err)
		}
		return w
	}
	connect(a, b, "ab")
	connect(a, c, "ac")
	connect(b, d, "bd")
	connect(c, d, "cd")
	connect(b, c, "bc") // bridge arm
	connect(a, d, "ad") // source arm

	if err := ckt.Classify(); err != nil {
		t.Fatal(err)
	}

	first, second := assertSquare(t, ckt)
	// Three of the four junction equations are independent; the fourth is
	// their combination. Three loops cover the six wires.
	if len(first) != 3 {
		t.Errorf("first-law equations = %d, want 3", len(first))
	}
	if len(second) != 3 {
		t.Errorf("second-law equations = %d, want 3", len(second))
	}

	covered := make(map[int64]bool)
	for _, eq := range second {
		for _, w := range eq.Wires() {
			covered[w.ID()] = true
		}
	}
	for _, w := range ckt.EffectiveWires() {
		if !covered[w.ID()] {
			t.Errorf("wire %s not covered by any loop equation", w.Name())
		}
	}
}
