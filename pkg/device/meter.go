package device

import (
	"fmt"
	"math"
)

// Galvanometer measures the current through its wire. Its internal
// resistance is inserted in series and counts toward the wire's net
// resistance. Readings saturate at the configured maximum. The zero value is
// an absent meter that always reads zero.
type Galvanometer struct {
	Resistor
	maxCurrent float64
}

func NewGalvanometer(resistance Value, maxCurrent float64) (*Galvanometer, error) {
	if maxCurrent < 0 {
		return nil, fmt.Errorf("device: galvanometer max current must be non-negative, got %g", maxCurrent)
	}
	return &Galvanometer{Resistor: Resistor{resistance: resistance}, maxCurrent: maxCurrent}, nil
}

func (g *Galvanometer) MaxCurrent() float64 { return g.maxCurrent }

// Reading returns the measured current, pinned to the maximum when the true
// current exceeds the scale.
func (g *Galvanometer) Reading(current float64) float64 {
	if math.Abs(current) < g.maxCurrent {
		return current
	}
	return g.maxCurrent
}

// Ammeter is a galvanometer with a different faceplate.
type Ammeter = Galvanometer

func NewAmmeter(resistance Value, maxCurrent float64) (*Ammeter, error) {
	a, err := NewGalvanometer(resistance, maxCurrent)
	if err != nil {
		return nil, fmt.Errorf("device: ammeter: %w", err)
	}
	return a, nil
}

// Voltmeter measures the drop across its own internal resistance, saturating
// at the configured maximum voltage.
type Voltmeter struct {
	Resistor
	maxVoltage float64
}

func NewVoltmeter(resistance Value, maxVoltage float64) (*Voltmeter, error) {
	if maxVoltage < 0 {
		return nil, fmt.Errorf("device: voltmeter max voltage must be non-negative, got %g", maxVoltage)
	}
	return &Voltmeter{Resistor: Resistor{resistance: resistance}, maxVoltage: maxVoltage}, nil
}

func (v *Voltmeter) MaxVoltage() float64 { return v.maxVoltage }

func (v *Voltmeter) Reading(t, current float64) float64 {
	voltage := v.Drop(t, current)
	if math.Abs(voltage) < v.maxVoltage {
		return voltage
	}
	return v.maxVoltage
}
