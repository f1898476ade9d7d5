package circuit

// InitGroundPotential pins the reference junction to zero over the whole
// time axis.
func (c *Circuit) InitGroundPotential() {
	c.earth.Potential = make([]float64, len(c.T))
}

// PropagatePotentials derives every reachable junction's potential series by
// a single outward traversal from the reference junction: each unvisited
// neighbor takes the known potential plus the oriented instantaneous drop of
// the connecting wire, per time sample. Each junction is visited at most
// once.
func (c *Circuit) PropagatePotentials() {
	visited := map[int64]bool{c.earth.id: true}
	queue := []*Junction{c.earth}

	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]

		for _, w := range j.wires {
			next, err := w.OtherJunction(j)
			if err != nil || next == nil || visited[next.id] {
				continue
			}
			visited[next.id] = true

			sign := Minus
			if w.start != nil && w.start.id == j.id {
				sign = Plus
			}

			next.Potential = make([]float64, len(c.T))
			for i, t := range c.T {
				next.Potential[i] = j.Potential[i] + float64(sign)*w.potentialDropAt(t, i)
			}
			queue = append(queue, next)
		}
	}
}

// DeriveQuantities fills every wire's derived series from the integrated
// state: potential drop, equivalent R/C/L (defined as zero whenever the
// denominator is zero), dissipated power, cumulative heat, stored energies
// and meter readings. dt is the nominal sample spacing used for the heat
// accumulation.
func (c *Circuit) DeriveQuantities(dt float64) {
	n := len(c.T)

	for _, w := range c.wires {
		w.PotentialDrop = make([]float64, n)
		w.EqResistance = make([]float64, n)
		w.EqCapacitance = make([]float64, n)
		w.Power = make([]float64, n)
		w.Heat = make([]float64, n)
		w.CapacitorEnergy = make([]float64, n)
		w.GalvanometerReading = make([]float64, n)
		w.AmmeterReading = make([]float64, n)
		w.VoltmeterReading = make([]float64, n)
		if w.Inductive() {
			w.EqInductance = make([]float64, n)
			w.InductorEnergy = make([]float64, n)
		}

		heat := 0.0
		for i := 0; i < n; i++ {
			t := c.T[i]
			drop := w.potentialDropAt(t, i)
			w.PotentialDrop[i] = drop

			if w.DqDt[i] != 0 {
				w.EqResistance[i] = drop / w.DqDt[i]
			}
			if drop != 0 {
				w.EqCapacitance[i] = w.Q[i] / drop
			}
			if w.Inductive() && w.D2qDt2[i] != 0 {
				w.EqInductance[i] = drop / w.D2qDt2[i]
			}

			w.Power[i] = w.DqDt[i] * w.DqDt[i] * w.NetResistance(t)
			// Heat is the running integral of power up to, but not
			// including, the current sample.
			w.Heat[i] = heat
			heat += w.Power[i] * dt

			if w.Inductive() {
				w.InductorEnergy[i] = 0.5 * w.Inductor.Inductance(t) * w.DqDt[i] * w.DqDt[i]
			}
			w.CapacitorEnergy[i] = 0.5 * w.Q[i] * w.Capacitor.Drop(t, w.Q[i])

			w.GalvanometerReading[i] = w.Galvanometer.Reading(w.DqDt[i])
			w.AmmeterReading[i] = w.Ammeter.Reading(w.DqDt[i])
			w.VoltmeterReading[i] = w.Voltmeter.Reading(t, w.DqDt[i])
		}
	}
}
