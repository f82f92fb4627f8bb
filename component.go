// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import "time"

// Placement is the on-board position and size of a component. The engine
// carries it for the editor and never reads it.
//
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// State is the processor owned state of a component. It persists across ticks.
//
type State struct {
	// History of recent outputs for time-window smoothing.
	History History
	// Hysteresis latch for threshold comparisons.
	Hysteresis Latch
	// LastSignals and LastSignalTimes record, per input pin, the last active
	// value received and when.
	LastSignals     map[string]Value
	LastSignalTimes map[string]time.Time
	// Generator bookkeeping.
	LastExecution time.Time
	CurrentOutput Value
	// Local is free for use by the component's part implementation.
	// See LocalState.
	Local any
}

// A Component is a node in a circuit.
//
type Component struct {
	ID       string
	Type     string
	Settings Settings
	// Inputs maps input pin names to their effective value. Rebuilt every tick.
	Inputs map[string]Value
	State  State
	// DisplayValue is the last committed output, for display purposes.
	DisplayValue Value
	Placement    Placement
}

// NewComponent returns a new component with a copy of the given settings.
//
func NewComponent(id, typ string, settings Settings) *Component {
	return &Component{
		ID:       id,
		Type:     typ,
		Settings: settings.Clone(),
		Inputs:   make(map[string]Value),
	}
}

// Input returns the effective value on the named input pin.
//
func (c *Component) Input(pin string) Value {
	return c.Inputs[pin]
}

// Received records an active value v on pin at time now and returns the last
// active value and its arrival time. ok is false if pin never received
// anything.
//
func (c *Component) Received(pin string, v Value, now time.Time) (last Value, at time.Time, ok bool) {
	s := &c.State
	if Active(v) {
		if s.LastSignals == nil {
			s.LastSignals = make(map[string]Value)
			s.LastSignalTimes = make(map[string]time.Time)
		}
		s.LastSignals[pin] = v
		s.LastSignalTimes[pin] = now
	}
	last, ok = s.LastSignals[pin]
	return last, s.LastSignalTimes[pin], ok
}

// clearTransient drops inputs and the state that only makes sense for the
// current circuit topology.
func (c *Component) clearTransient() {
	c.Inputs = make(map[string]Value)
	c.State.History.Clear()
	c.State.Hysteresis = Latch{}
	c.State.LastSignals = nil
	c.State.LastSignalTimes = nil
}

// LocalState returns c.State.Local as a *T, replacing it with a new zero T if
// it holds anything else.
//
func LocalState[T any](c *Component) *T {
	if p, ok := c.State.Local.(*T); ok {
		return p
	}
	p := new(T)
	c.State.Local = p
	return p
}
