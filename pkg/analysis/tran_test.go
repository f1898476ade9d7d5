package analysis

import (
	"math"
	"testing"

	"kirchhoff/pkg/circuit"
	"kirchhoff/pkg/device"
)

// twoWireLoop connects w1 and w2 in a single loop between earth and a "top"
// junction, both oriented away from earth through w1.
func twoWireLoop(t *testing.T, ckt *circuit.Circuit, w1, w2 *circuit.Wire) *circuit.Junction {
	t.Helper()
	top := circuit.NewJunction("top")
	if err := ckt.Connect(ckt.Ground(), w1); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Connect(top, w1, w2); err != nil {
		t.Fatal(err)
	}
	if err := ckt.Connect(ckt.Ground(), w2); err != nil {
		t.Fatal(err)
	}
	return top
}

func run(t *testing.T, ckt *circuit.Circuit, stop float64, resolution int) *Transient {
	t.Helper()
	tr := NewTransient(stop, resolution)
	if err := tr.Setup(ckt); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := tr.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return tr
}

func TestTransientResistiveLoop(t *testing.T) {
	ckt := circuit.New("resistive")
	w1 := circuit.NewWire("w1", device.Const(2))
	w1.Battery = device.NewBattery(device.Const(10))
	w2 := circuit.NewWire("w2", device.Const(3))
	top := twoWireLoop(t, ckt, w1, w2)

	tr := run(t, ckt, 1.0, 11)

	if got := len(ckt.T); got != 11 {
		t.Fatalf("time axis has %d samples, want 11", got)
	}
	// 10 V across 5 ohm total: 2 A everywhere, at every sample.
	for i := range ckt.T {
		if diff := math.Abs(w1.DqDt[i] - 2); diff > 1e-9 {
			t.Errorf("sample %d: I(w1) = %v, want 2", i, w1.DqDt[i])
		}
		if diff := math.Abs(w2.DqDt[i] - 2); diff > 1e-9 {
			t.Errorf("sample %d: I(w2) = %v, want 2", i, w2.DqDt[i])
		}
		// Node potential is the emf less the drop over w1's resistance.
		if diff := math.Abs(top.Potential[i] - 6); diff > 1e-9 {
			t.Errorf("sample %d: V(top) = %v, want 6", i, top.Potential[i])
		}
	}
	// Charge through w1 grows linearly.
	last := len(ckt.T) - 1
	if diff := math.Abs(w1.Q[last] - 2*ckt.T[last]); diff > 1e-9 {
		t.Errorf("final Q(w1) = %v, want %v", w1.Q[last], 2*ckt.T[last])
	}

	results := tr.Results()
	for _, key := range []string{"TIME", "Q(w1)", "I(w1)", "Q(w2)", "I(w2)", "V(top)", "V(earth)"} {
		if _, ok := results[key]; !ok {
			t.Errorf("results missing key %q", key)
		}
	}
}

func TestTransientRCDecay(t *testing.T) {
	ckt := circuit.New("rc")
	w1 := circuit.NewWire("w1", device.Const(0.5))
	w1.Capacitor = device.NewCapacitor(device.Const(1), 1)
	w2 := circuit.NewWire("w2", device.Const(0.5))
	twoWireLoop(t, ckt, w1, w2)

	run(t, ckt, 2.0, 101)

	if w1.Q[0] != 1 {
		t.Fatalf("initial charge = %v, want the declared 1", w1.Q[0])
	}
	// tau = (R1+R2)*C = 1.
	for i, tm := range ckt.T {
		want := math.Exp(-tm)
		if diff := math.Abs(w1.Q[i] - want); diff > 1e-6 {
			t.Errorf("t=%g: Q = %v, want %v (diff %g)", tm, w1.Q[i], want, diff)
		}
		if diff := math.Abs(w1.DqDt[i] + want); diff > 1e-6 {
			t.Errorf("t=%g: I = %v, want %v", tm, w1.DqDt[i], -want)
		}
	}
}

func TestTransientRLRise(t *testing.T) {
	ckt := circuit.New("rl")
	w1 := circuit.NewWire("w1", device.Const(1))
	w1.Battery = device.NewBattery(device.Const(1))
	w1.Inductor = device.NewInductor(device.Const(1))
	w2 := circuit.NewWire("w2", device.Const(0))
	twoWireLoop(t, ckt, w1, w2)

	run(t, ckt, 3.0, 151)

	// i(t) = (V/R)(1 - e^(-tR/L)) with V = R = L = 1.
	for i, tm := range ckt.T {
		want := 1 - math.Exp(-tm)
		if diff := math.Abs(w1.DqDt[i] - want); diff > 1e-6 {
			t.Errorf("t=%g: I = %v, want %v (diff %g)", tm, w1.DqDt[i], want, diff)
		}
		if diff := math.Abs(w1.D2qDt2[i] - math.Exp(-tm)); diff > 1e-6 {
			t.Errorf("t=%g: dI/dt = %v, want %v", tm, w1.D2qDt2[i], math.Exp(-tm))
		}
	}
	// The loop partner carries the same current.
	last := len(ckt.T) - 1
	if diff := math.Abs(w2.DqDt[last] - w1.DqDt[last]); diff > 1e-9 {
		t.Errorf("I(w2) = %v, want I(w1) = %v", w2.DqDt[last], w1.DqDt[last])
	}
}

func TestTransientBatteryStepEvent(t *testing.T) {
	ckt := circuit.New("step")
	w1 := circuit.NewWire("w1", device.Const(5))
	w1.Battery = device.NewBattery(device.Const(10))
	w2 := circuit.NewWire("w2", device.Const(0))
	twoWireLoop(t, ckt, w1, w2)

	ckt.AddEvent(1.0, func() { w1.Battery.Set(device.Const(5)) })

	run(t, ckt, 2.0, 200)

	if got := len(ckt.T); got != 200 {
		t.Fatalf("time axis has %d samples, want 200", got)
	}
	// The event time closes one segment and opens the next, so it is
	// sampled twice: once with the old emf, once with the new.
	if ckt.T[99] != 1.0 || ckt.T[100] != 1.0 {
		t.Fatalf("boundary samples = %g, %g, want 1, 1", ckt.T[99], ckt.T[100])
	}
	if diff := math.Abs(w1.DqDt[99] - 2); diff > 1e-9 {
		t.Errorf("current before step = %v, want 2", w1.DqDt[99])
	}
	if diff := math.Abs(w1.DqDt[100] - 1); diff > 1e-9 {
		t.Errorf("current after step = %v, want 1", w1.DqDt[100])
	}
}

func TestTransientSwitchOpenEvent(t *testing.T) {
	ckt := circuit.New("disconnect")
	w1 := circuit.NewWire("w1", device.Const(1))
	w1.Capacitor = device.NewCapacitor(device.Const(1), 0)
	w2 := circuit.NewWire("w2", device.Const(0))
	w2.Battery = device.NewBattery(device.Const(1))
	twoWireLoop(t, ckt, w1, w2)

	ckt.AddEvent(1.0, w2.Switch.Open)

	run(t, ckt, 2.0, 200)

	qAtOpen := 1 - math.Exp(-1)
	if diff := math.Abs(w1.Q[99] - qAtOpen); diff > 1e-6 {
		t.Fatalf("charge at switch time = %v, want %v", w1.Q[99], qAtOpen)
	}

	// Opening the only source wire leaves no closed loop: charge holds
	// exactly, current drops to zero.
	for i := 100; i < len(ckt.T); i++ {
		if w1.Q[i] != w1.Q[99] {
			t.Errorf("sample %d: held charge = %v, want %v", i, w1.Q[i], w1.Q[99])
		}
		if w1.DqDt[i] != 0 {
			t.Errorf("sample %d: current = %v, want 0", i, w1.DqDt[i])
		}
	}
	if got := len(ckt.EffectiveWires()); got != 0 {
		t.Errorf("effective wires after disconnect = %d, want 0", got)
	}
}

func TestTransientNullWireHeld(t *testing.T) {
	ckt := circuit.New("stub")
	w1 := circuit.NewWire("w1", device.Const(2))
	w1.Battery = device.NewBattery(device.Const(10))
	w2 := circuit.NewWire("w2", device.Const(3))
	top := twoWireLoop(t, ckt, w1, w2)

	stub := circuit.NewWire("stub", device.Const(1))
	stub.Capacitor = device.NewCapacitor(device.Const(1), 5)
	if err := ckt.Connect(top, stub); err != nil {
		t.Fatal(err)
	}

	run(t, ckt, 1.0, 11)

	for i := range ckt.T {
		if stub.Q[i] != 5 {
			t.Errorf("sample %d: stub charge = %v, want the held 5", i, stub.Q[i])
		}
		if stub.DqDt[i] != 0 {
			t.Errorf("sample %d: stub current = %v, want 0", i, stub.DqDt[i])
		}
	}
	// The dangling wire must not disturb the loop solution.
	last := len(ckt.T) - 1
	if diff := math.Abs(w1.DqDt[last] - 2); diff > 1e-9 {
		t.Errorf("I(w1) = %v, want 2", w1.DqDt[last])
	}
}

func TestTransientShuffleInvariance(t *testing.T) {
	build := func() (*circuit.Circuit, *circuit.Wire) {
		ckt := circuit.New("rc")
		w1 := circuit.NewWire("w1", device.Const(0.5))
		w1.Capacitor = device.NewCapacitor(device.Const(1), 1)
		w2 := circuit.NewWire("w2", device.Const(0.5))
		w3 := circuit.NewWire("w3", device.Const(2))
		top := circuit.NewJunction("top")
		ckt.Connect(ckt.Ground(), w1, w2, w3)
		ckt.Connect(top, w1, w2, w3)
		return ckt, w1
	}

	ckt1, ref := build()
	run(t, ckt1, 1.0, 51)

	ckt2, shuffled := build()
	tr := NewTransient(1.0, 51)
	tr.ShuffleSeed = 7
	if err := tr.Setup(ckt2); err != nil {
		t.Fatal(err)
	}
	if err := tr.Execute(); err != nil {
		t.Fatal(err)
	}

	// State packing order must not leak into the solution.
	for i := range ref.Q {
		if diff := math.Abs(ref.Q[i] - shuffled.Q[i]); diff > 1e-9 {
			t.Fatalf("sample %d: Q differs by %g under shuffled packing", i, diff)
		}
	}
}

func TestTransientSetupValidation(t *testing.T) {
	ckt := circuit.New("empty")
	if err := NewTransient(0, 100).Setup(ckt); err == nil {
		t.Error("expected error for non-positive stop time")
	}
	if err := NewTransient(1, 1).Setup(ckt); err == nil {
		t.Error("expected error for a resolution below the segment minimum")
	}
}
