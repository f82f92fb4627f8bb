// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package stream

import (
	"math"

	"github.com/db47h/sigsim"
)

// ComponentState is the visible state of a component after a tick.
//
type ComponentState struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Display any    `json:"display,omitempty"`
}

// WireState is the value last carried by a wire.
//
type WireState struct {
	ID    string `json:"id"`
	Value any    `json:"value,omitempty"`
}

// Snapshot is the message broadcast to clients after every tick.
//
type Snapshot struct {
	Tick       uint64           `json:"tick"`
	Iterations int              `json:"iterations"`
	Stable     bool             `json:"stable"`
	Components []ComponentState `json:"components"`
	Wires      []WireState      `json:"wires"`
}

// Capture builds a snapshot of s after the tick described by st.
//
func Capture(s *sigsim.Simulation, st sigsim.TickStats) *Snapshot {
	c := s.Circuit()
	snap := &Snapshot{
		Tick:       st.Tick,
		Iterations: st.Iterations,
		Stable:     st.Stable,
		Components: make([]ComponentState, 0, len(c.Components())),
		Wires:      make([]WireState, 0, len(c.Wires())),
	}
	for _, p := range c.Components() {
		snap.Components = append(snap.Components, ComponentState{ID: p.ID, Type: p.Type, Display: encodable(p.DisplayValue)})
	}
	for _, w := range c.Wires() {
		snap.Wires = append(snap.Wires, WireState{ID: w.ID, Value: encodable(w.Value)})
	}
	return snap
}

// encodable replaces floats that JSON cannot represent with their text form.
func encodable(v sigsim.Value) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return sigsim.String(f)
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return sigsim.String(f)
		}
	}
	return v
}

// Display returns the display value of the component with the given ID.
//
func (s *Snapshot) Display(id string) (any, bool) {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return s.Components[i].Display, true
		}
	}
	return nil, false
}
