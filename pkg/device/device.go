package device

import (
	"log"
	"sync"
)

// Value is an electrical parameter that is either a constant or an arbitrary
// function of simulation time. The zero value is the constant zero.
type Value struct {
	fn       func(t float64) float64
	constant float64
}

func Const(v float64) Value { return Value{constant: v} }

func Func(fn func(t float64) float64) Value { return Value{fn: fn} }

// At evaluates the parameter at time t.
func (v Value) At(t float64) float64 {
	if v.fn != nil {
		return v.fn(t)
	}
	return v.constant
}

// IsConstZero reports whether the parameter is the constant zero. A
// function-valued parameter is never considered zero, even if it happens to
// evaluate to zero everywhere.
func (v Value) IsConstZero() bool { return v.fn == nil && v.constant == 0 }

// Switch makes or breaks its wire. A fresh switch is closed.
type Switch struct {
	open bool
}

func NewSwitch() *Switch { return &Switch{} }

func (s *Switch) IsClosed() bool { return !s.open }
func (s *Switch) IsOpen() bool   { return s.open }

func (s *Switch) Open()   { s.open = true }
func (s *Switch) Close()  { s.open = false }
func (s *Switch) Toggle() { s.open = !s.open }

// warnOnce rate-limits advisory warnings to one per device instance.
type warnOnce struct {
	once sync.Once
}

func (w *warnOnce) warnf(format string, args ...any) {
	w.once.Do(func() { log.Printf(format, args...) })
}
