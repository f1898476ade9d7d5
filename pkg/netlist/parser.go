// Package netlist builds circuits from a YAML description. Component values
// accept SPICE-style unit suffixes ("10k", "4.7u"). Only constant parameters
// can be expressed in a file; time-varying parameters stay programmatic.
package netlist

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"kirchhoff/pkg/circuit"
	"kirchhoff/pkg/device"
)

var unitMap = map[string]float64{
	"T": 1e12,  // tera
	"G": 1e9,   // giga
	"M": 1e6,   // mega
	"K": 1e3,   // kilo
	"k": 1e3,   // kilo
	"m": 1e-3,  // milli
	"u": 1e-6,  // micro
	"n": 1e-9,  // nano
	"p": 1e-12, // pico
	"f": 1e-15, // femto
}

// ParseValue converts a value string with an optional unit suffix. An empty
// string is zero.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	num, suffix := s, ""
	if strings.HasSuffix(s, "meg") {
		num, suffix = s[:len(s)-3], "M"
	} else {
		num, suffix = s[:len(s)-1], s[len(s)-1:]
	}

	factor, ok := unitMap[suffix]
	if !ok {
		return 0, fmt.Errorf("unknown unit suffix %q in %q", suffix, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing value %q: %v", s, err)
	}
	return v * factor, nil
}

type ACSpec struct {
	RMS   string `yaml:"rms"`
	Omega string `yaml:"omega"`
	Phase string `yaml:"phase"`
}

type MeterSpec struct {
	Resistance string `yaml:"resistance"`
	Max        string `yaml:"max"`
}

type WireSpec struct {
	Name         string     `yaml:"name"`
	Nodes        []string   `yaml:"nodes"` // [start, end]
	Resistance   string     `yaml:"resistance"`
	EMF          string     `yaml:"emf"`
	AC           *ACSpec    `yaml:"ac"`
	Capacitance  string     `yaml:"capacitance"`
	Charge       string     `yaml:"charge"` // initial capacitor charge
	Inductance   string     `yaml:"inductance"`
	Galvanometer *MeterSpec `yaml:"galvanometer"`
	Ammeter      *MeterSpec `yaml:"ammeter"`
	Voltmeter    *MeterSpec `yaml:"voltmeter"`
	Open         bool       `yaml:"open"` // initial switch state
}

type EventSpec struct {
	Time   string `yaml:"time"`
	Wire   string `yaml:"wire"`
	Action string `yaml:"action"` // open, close, toggle, set-emf
	EMF    string `yaml:"emf"`    // for set-emf
}

type TranSpec struct {
	Stop   string `yaml:"stop"`
	Points int    `yaml:"points"`
}

type Netlist struct {
	Title  string      `yaml:"title"`
	Ground string      `yaml:"ground"`
	Wires  []WireSpec  `yaml:"wires"`
	Events []EventSpec `yaml:"events"`
	Tran   TranSpec    `yaml:"transient"`
}

// Parse decodes a YAML netlist and builds the described circuit. Node names
// equal to the declared ground name (default "gnd") map to the circuit's
// reference junction.
func Parse(data []byte) (*Netlist, *circuit.Circuit, error) {
	var nl Netlist
	if err := yaml.Unmarshal(data, &nl); err != nil {
		return nil, nil, fmt.Errorf("decoding netlist: %v", err)
	}
	if nl.Ground == "" {
		nl.Ground = "gnd"
	}

	ckt := circuit.New(nl.Title)
	junctions := map[string]*circuit.Junction{nl.Ground: ckt.Ground()}
	wires := make(map[string]*circuit.Wire, len(nl.Wires))

	junction := func(name string) *circuit.Junction {
		j, ok := junctions[name]
		if !ok {
			j = circuit.NewJunction(name)
			junctions[name] = j
		}
		return j
	}

	for _, spec := range nl.Wires {
		if spec.Name == "" {
			return nil, nil, fmt.Errorf("wire without a name")
		}
		if _, dup := wires[spec.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate wire name %q", spec.Name)
		}
		if len(spec.Nodes) != 2 {
			return nil, nil, fmt.Errorf("wire %q: expected 2 nodes, got %d", spec.Name, len(spec.Nodes))
		}

		w, err := buildWire(spec)
		if err != nil {
			return nil, nil, err
		}
		wires[spec.Name] = w

		for _, node := range spec.Nodes {
			if err := ckt.Connect(junction(node), w); err != nil {
				return nil, nil, fmt.Errorf("wire %q: %w", spec.Name, err)
			}
		}
	}

	for _, ev := range nl.Events {
		w, ok := wires[ev.Wire]
		if !ok {
			return nil, nil, fmt.Errorf("event references unknown wire %q", ev.Wire)
		}
		t, err := ParseValue(ev.Time)
		if err != nil {
			return nil, nil, fmt.Errorf("event time: %v", err)
		}

		switch ev.Action {
		case "open":
			ckt.AddEvent(t, w.Switch.Open)
		case "close":
			ckt.AddEvent(t, w.Switch.Close)
		case "toggle":
			ckt.AddEvent(t, w.Switch.Toggle)
		case "set-emf":
			emf, err := ParseValue(ev.EMF)
			if err != nil {
				return nil, nil, fmt.Errorf("event emf: %v", err)
			}
			ckt.AddEvent(t, func() { w.Battery.Set(device.Const(emf)) })
		default:
			return nil, nil, fmt.Errorf("unknown event action %q", ev.Action)
		}
	}

	return &nl, ckt, nil
}

func buildWire(spec WireSpec) (*circuit.Wire, error) {
	r, err := ParseValue(spec.Resistance)
	if err != nil {
		return nil, fmt.Errorf("wire %q resistance: %v", spec.Name, err)
	}
	w := circuit.NewWire(spec.Name, device.Const(r))

	if spec.EMF != "" {
		emf, err := ParseValue(spec.EMF)
		if err != nil {
			return nil, fmt.Errorf("wire %q emf: %v", spec.Name, err)
		}
		w.Battery = device.NewBattery(device.Const(emf))
	}

	if spec.AC != nil {
		rms, err := ParseValue(spec.AC.RMS)
		if err != nil {
			return nil, fmt.Errorf("wire %q ac rms: %v", spec.Name, err)
		}
		omega, err := ParseValue(spec.AC.Omega)
		if err != nil {
			return nil, fmt.Errorf("wire %q ac omega: %v", spec.Name, err)
		}
		phase, err := ParseValue(spec.AC.Phase)
		if err != nil {
			return nil, fmt.Errorf("wire %q ac phase: %v", spec.Name, err)
		}
		ac, err := device.NewACBattery(rms, omega, phase)
		if err != nil {
			return nil, fmt.Errorf("wire %q: %v", spec.Name, err)
		}
		w.ACBattery = ac
	}

	if spec.Capacitance != "" || spec.Charge != "" {
		c, err := ParseValue(spec.Capacitance)
		if err != nil {
			return nil, fmt.Errorf("wire %q capacitance: %v", spec.Name, err)
		}
		q0, err := ParseValue(spec.Charge)
		if err != nil {
			return nil, fmt.Errorf("wire %q charge: %v", spec.Name, err)
		}
		w.Capacitor = device.NewCapacitor(device.Const(c), q0)
	}

	if spec.Inductance != "" {
		l, err := ParseValue(spec.Inductance)
		if err != nil {
			return nil, fmt.Errorf("wire %q inductance: %v", spec.Name, err)
		}
		w.Inductor = device.NewInductor(device.Const(l))
	}

	if spec.Galvanometer != nil {
		g, err := buildMeter(spec.Name, "galvanometer", spec.Galvanometer, device.NewGalvanometer)
		if err != nil {
			return nil, err
		}
		w.Galvanometer = g
	}
	if spec.Ammeter != nil {
		a, err := buildMeter(spec.Name, "ammeter", spec.Ammeter, device.NewAmmeter)
		if err != nil {
			return nil, err
		}
		w.Ammeter = a
	}
	if spec.Voltmeter != nil {
		v, err := buildMeter(spec.Name, "voltmeter", spec.Voltmeter, device.NewVoltmeter)
		if err != nil {
			return nil, err
		}
		w.Voltmeter = v
	}

	if spec.Open {
		w.Switch.Open()
	}

	return w, nil
}

func buildMeter[M any](wire, kind string, spec *MeterSpec, newMeter func(device.Value, float64) (*M, error)) (*M, error) {
	r, err := ParseValue(spec.Resistance)
	if err != nil {
		return nil, fmt.Errorf("wire %q %s resistance: %v", wire, kind, err)
	}
	limit, err := ParseValue(spec.Max)
	if err != nil {
		return nil, fmt.Errorf("wire %q %s max: %v", wire, kind, err)
	}
	m, err := newMeter(device.Const(r), limit)
	if err != nil {
		return nil, fmt.Errorf("wire %q: %v", wire, err)
	}
	return m, nil
}
