package device

import (
	"fmt"
	"math"
)

// Battery is a DC source. The emf may be swapped mid-simulation through an
// event callback. The zero value is an absent source.
type Battery struct {
	emf Value
}

func NewBattery(emf Value) *Battery {
	return &Battery{emf: emf}
}

func (b *Battery) EMF(t float64) float64 { return b.emf.At(t) }

func (b *Battery) Set(emf Value) { b.emf = emf }

// ACBattery is a sinusoidal source: emf(t) = √2·rms·sin(ωt+φ). The zero
// value is inert (rms 0).
type ACBattery struct {
	rms   float64
	omega float64
	phase float64
}

func NewACBattery(rms, omega, phase float64) (*ACBattery, error) {
	if omega == 0 {
		return nil, fmt.Errorf("device: ac battery angular frequency cannot be zero")
	}
	return &ACBattery{rms: rms, omega: omega, phase: phase}, nil
}

func (b *ACBattery) EMF(t float64) float64 {
	return math.Sqrt2 * b.rms * math.Sin(b.omega*t+b.phase)
}

func (b *ACBattery) RMS() float64   { return b.rms }
func (b *ACBattery) Omega() float64 { return b.omega }
func (b *ACBattery) Phase() float64 { return b.phase }

func (b *ACBattery) Period() float64 { return 2 * math.Pi / b.omega }

func (b *ACBattery) Frequency() float64 { return b.omega / (2 * math.Pi) }
