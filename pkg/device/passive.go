package device

// Resistor is an ohmic element. The zero value has no resistance.
type Resistor struct {
	resistance Value
}

func NewResistor(resistance Value) *Resistor {
	return &Resistor{resistance: resistance}
}

func (r *Resistor) Resistance(t float64) float64 {
	return r.resistance.At(t)
}

// Drop returns the resistive potential drop for the given current.
func (r *Resistor) Drop(t, current float64) float64 {
	return r.resistance.At(t) * current
}

// Capacitor holds charge. The zero value is an absent capacitor: its drop is
// defined as zero for any charge.
type Capacitor struct {
	capacitance Value
	initCharge  float64
	warn        warnOnce
}

func NewCapacitor(capacitance Value, initCharge float64) *Capacitor {
	return &Capacitor{capacitance: capacitance, initCharge: initCharge}
}

func (c *Capacitor) Capacitance(t float64) float64 {
	v := c.capacitance.At(t)
	if v == 0 {
		c.warn.warnf("device: zero capacitance encountered at t=%g", t)
	}
	return v
}

// InitCharge is the charge on the capacitor before the simulation starts.
func (c *Capacitor) InitCharge() float64 { return c.initCharge }

// Drop returns q/C, or zero when the capacitance is zero.
func (c *Capacitor) Drop(t, charge float64) float64 {
	v := c.capacitance.At(t)
	if v == 0 {
		return 0
	}
	return charge / v
}

// Inductor opposes current change. A wire whose inductor is absent carries a
// single state variable (charge); a present inductor adds the current as a
// second, independently integrated state variable.
type Inductor struct {
	inductance Value
	warn       warnOnce
}

func NewInductor(inductance Value) *Inductor {
	return &Inductor{inductance: inductance}
}

// Present reports whether the inductor exists at all. A constant zero
// inductance means no inductor; a function-valued inductance is present.
func (l *Inductor) Present() bool { return !l.inductance.IsConstZero() }

func (l *Inductor) Inductance(t float64) float64 {
	v := l.inductance.At(t)
	if v == 0 {
		l.warn.warnf("device: zero inductance encountered at t=%g", t)
	}
	return v
}

// Drop returns L·di/dt.
func (l *Inductor) Drop(t, dIdt float64) float64 {
	return l.inductance.At(t) * dIdt
}
