// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"time"

	"github.com/pkg/errors"
)

// ExtraIterations is the slack added to the component count to get the
// iteration cap of a tick.
//
const ExtraIterations = 5

// MaxIterations returns the maximum number of stabilization iterations for a
// circuit of n components.
//
func MaxIterations(n int) int { return n + ExtraIterations }

// Tick advances the simulation by one tick.
//
// Generators update first. Then all processors are evaluated and their outputs
// propagated through the wires until no output nor input changes, or until
// MaxIterations is reached. Finally wire values and display values are
// committed.
//
func (s *Simulation) Tick() TickStats {
	start := time.Now()
	if s.version != s.circuit.Version() {
		s.invalidate()
	}
	s.ticks++
	env := s.env()
	comps := s.circuit.Components()
	wires := s.circuit.Wires()
	st := TickStats{Tick: s.ticks, Components: len(comps), Wires: len(wires)}

	// generators
	for _, c := range comps {
		p := s.spec(c)
		if p == nil || p.Generate == nil {
			continue
		}
		if _, err := protect(func() Outputs { p.Generate(c, env); return nil }); err != nil {
			st.Failures++
			s.failed(c, errors.Wrap(err, "generator"))
		}
	}

	// stabilization
	var prev, cache map[PinRef]Value
	limit := MaxIterations(len(comps))
	for st.Iterations < limit {
		st.Iterations++
		cache = make(map[PinRef]Value, len(prev))
		for _, c := range comps {
			if s.spec(c) == nil {
				continue
			}
			out, err := s.registry.Invoke(c, env)
			if err != nil {
				st.Failures++
				s.failed(c, err)
			}
			for pin, v := range out {
				cache[PinRef{c.ID, pin}] = v
			}
		}
		changed := !sameOutputs(prev, cache)
		if s.propagate(cache, wires) {
			changed = true
		}
		prev = cache
		if !changed {
			st.Stable = true
			break
		}
	}
	if !st.Stable {
		s.log.Debug("tick did not stabilize", "tick", st.Tick, "iterations", st.Iterations)
	}

	// commit
	for _, w := range wires {
		w.Value = cache[w.From()]
	}
	for _, c := range comps {
		p := s.spec(c)
		switch {
		case p == nil:
		case p.Display != nil:
			c.DisplayValue = p.Display(c)
		case len(p.Outputs) > 0:
			c.DisplayValue = cache[PinRef{c.ID, p.Outputs[0]}]
		}
	}

	st.Duration = time.Since(start)
	for _, o := range s.obs {
		o.TickDone(st)
	}
	return st
}

// propagate aggregates wire values into component inputs and reports whether
// any input changed.
func (s *Simulation) propagate(cache map[PinRef]Value, wires []*Wire) bool {
	f := s.fanIn
	f.reset()
	for _, w := range wires {
		// a missing source yields nil, which aggregates as "no value".
		f.add(w.To(), cache[w.From()])
	}
	changed := false
	for _, dst := range f.order {
		c := s.circuit.Component(dst.ID)
		if c == nil {
			continue
		}
		v := Aggregate(f.values[dst]...)
		old, ok := c.Inputs[dst.Pin]
		if v == nil {
			if ok {
				delete(c.Inputs, dst.Pin)
				changed = true
			}
			continue
		}
		if !ok || !Equal(old, v) {
			c.Inputs[dst.Pin] = v
			changed = true
		}
	}
	// inputs whose wires were removed
	for _, c := range s.circuit.Components() {
		for pin := range c.Inputs {
			if _, ok := f.values[PinRef{c.ID, pin}]; !ok {
				delete(c.Inputs, pin)
				changed = true
			}
		}
	}
	return changed
}

func sameOutputs(a, b map[PinRef]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

func (s *Simulation) failed(c *Component, err error) {
	s.log.Warn("processor failed", "component", c.ID, "type", c.Type, "error", err)
	for _, o := range s.obs {
		o.ProcessorFailed(c, err)
	}
}
