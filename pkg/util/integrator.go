package util

import (
	"fmt"
	"slices"
)

// DerivFunc evaluates the state derivative at time t. The returned slice
// must have the same length as state.
type DerivFunc func(t float64, state []float64) ([]float64, error)

// IntegrateRK4 integrates dy/dt = f(t, y) across the sample grid ts with the
// classical fourth-order Runge-Kutta method, returning one state row per
// grid entry; the first row is y0. Each grid interval is subdivided into
// substeps internal steps.
func IntegrateRK4(f DerivFunc, y0 []float64, ts []float64, substeps int) ([][]float64, error) {
	if substeps < 1 {
		substeps = 1
	}

	out := make([][]float64, len(ts))
	if len(ts) == 0 {
		return out, nil
	}

	y := slices.Clone(y0)
	out[0] = slices.Clone(y)

	for k := 1; k < len(ts); k++ {
		t0, t1 := ts[k-1], ts[k]
		if t1 < t0 {
			return nil, fmt.Errorf("integration grid is not monotonic: t[%d]=%g > t[%d]=%g", k-1, t0, k, t1)
		}
		h := (t1 - t0) / float64(substeps)
		t := t0
		for s := 0; s < substeps; s++ {
			var err error
			y, err = rk4Step(f, t, y, h)
			if err != nil {
				return nil, err
			}
			t += h
		}
		out[k] = slices.Clone(y)
	}

	return out, nil
}

func rk4Step(f DerivFunc, t float64, y []float64, h float64) ([]float64, error) {
	n := len(y)

	k1, err := f(t, y)
	if err != nil {
		return nil, err
	}

	tmp := make([]float64, n)
	for i := range tmp {
		tmp[i] = y[i] + 0.5*h*k1[i]
	}
	k2, err := f(t+0.5*h, tmp)
	if err != nil {
		return nil, err
	}

	for i := range tmp {
		tmp[i] = y[i] + 0.5*h*k2[i]
	}
	k3, err := f(t+0.5*h, tmp)
	if err != nil {
		return nil, err
	}

	for i := range tmp {
		tmp[i] = y[i] + h*k3[i]
	}
	k4, err := f(t+h, tmp)
	if err != nil {
		return nil, err
	}

	next := make([]float64, n)
	for i := range next {
		next[i] = y[i] + h/6.0*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next, nil
}
