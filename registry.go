// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Outputs maps output pin names to the value emitted on that pin. A pin
// missing from the map, or a nil Outputs, emits nothing for this evaluation.
//
type Outputs map[string]Value

// Env is the environment of a single tick, shared by all processors.
//
type Env struct {
	// Tick is the number of the tick being run, starting at 1.
	Tick uint64
	// Now is the wall clock time of the tick. All evaluations within a tick
	// see the same value.
	Now time.Time
	// Rand is the random source for generators.
	Rand *rand.Rand
	// Log is the simulation logger.
	Log *slog.Logger
	// HistoryCap bounds signal histories.
	HistoryCap int
}

// Average smooths v over the last window seconds of c's output history.
//
func (e *Env) Average(c *Component, v float64, window float64) float64 {
	return c.State.History.Average(v, e.Now, Seconds(window), e.HistoryCap)
}

// Latch feeds x to c's hysteresis latch for the current tick. See Latch.Eval.
//
func (e *Env) Latch(c *Component, x, threshold, band float64) bool {
	return c.State.Hysteresis.Eval(e.Tick, x, threshold, band)
}

// A Processor computes the outputs of a component from its inputs, settings
// and state.
//
// Processors may mutate c.State but must not reach outside c. They are invoked
// several times per tick and must converge given unchanged inputs.
//
type Processor func(c *Component, env *Env) Outputs

// A PartSpec is the blueprint of a component type.
//
// For example, a NOT gate can be defined like this:
//
//	not := &sigsim.PartSpec{
//		Type:    "not",
//		Inputs:  []string{"signal_in"},
//		Outputs: []string{"signal_out"},
//		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
//			if sigsim.Truthy(c.Input("signal_in")) {
//				return sigsim.Outputs{"signal_out": 0.0}
//			}
//			return sigsim.Outputs{"signal_out": 1.0}
//		}}
//
type PartSpec struct {
	// Type tag.
	Type string
	// Input and output pin names.
	Inputs  []string
	Outputs []string
	// Defaults are the documented default settings. They are copied into new
	// components by Registry.NewComponent.
	Defaults Settings

	// Process is the processor function. Required.
	Process Processor
	// Generate, if set, is called once per tick before signal propagation.
	Generate func(c *Component, env *Env)
	// Fallback is used instead of Process after Process panicked. If nil, the
	// first input is echoed on the first output.
	Fallback Processor
	// Display, if set, computes the component's DisplayValue at the end of a
	// tick. If nil, the value of the first output pin is used.
	Display func(c *Component) Value
	// Init resets the component state to its settings defined baseline.
	Init func(c *Component)
	// Invalidate clears part specific transient state after a topology change.
	Invalidate func(c *Component)
}

func (p *PartSpec) fallback(c *Component, env *Env) Outputs {
	if p.Fallback != nil {
		return p.Fallback(c, env)
	}
	if len(p.Inputs) == 0 || len(p.Outputs) == 0 {
		return nil
	}
	if v := c.Input(p.Inputs[0]); Active(v) {
		return Outputs{p.Outputs[0]: v}
	}
	return nil
}

// Registry maps type tags to part specifications.
//
type Registry struct {
	specs map[string]*PartSpec
}

// NewRegistry returns a registry holding the given specs.
//
func NewRegistry(specs ...*PartSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*PartSpec, len(specs))}
	if err := r.Register(specs...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds specs to the registry. Type tags must be unique.
//
func (r *Registry) Register(specs ...*PartSpec) error {
	for _, p := range specs {
		switch {
		case p == nil:
			return errors.New("nil part spec")
		case p.Type == "":
			return errors.New("part spec has no type")
		case p.Process == nil:
			return errors.Errorf("part %s has no processor", p.Type)
		}
		if _, ok := r.specs[p.Type]; ok {
			return errors.Errorf("part %s already registered", p.Type)
		}
		r.specs[p.Type] = p
	}
	return nil
}

// Lookup returns the spec registered for typ.
//
func (r *Registry) Lookup(typ string) (*PartSpec, bool) {
	p, ok := r.specs[typ]
	return p, ok
}

// Types returns the registered type tags, sorted.
//
func (r *Registry) Types() []string {
	ts := make([]string, 0, len(r.specs))
	for t := range r.specs {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}

// NewComponent returns a new component of type typ with default settings,
// initialized to its baseline state.
//
func (r *Registry) NewComponent(id, typ string) (*Component, error) {
	p, ok := r.specs[typ]
	if !ok {
		return nil, errors.Errorf("unknown part type %q", typ)
	}
	c := NewComponent(id, typ, p.Defaults)
	if p.Init != nil {
		p.Init(c)
	}
	return c, nil
}

// Invoke runs the processor for c. If the processor panics, the panic is
// recovered, the part's fallback result is returned and err describes the
// failure. Components of an unknown type emit nothing.
//
func (r *Registry) Invoke(c *Component, env *Env) (out Outputs, err error) {
	p, ok := r.specs[c.Type]
	if !ok {
		return nil, nil
	}
	out, err = protect(func() Outputs { return p.Process(c, env) })
	if err != nil {
		out, _ = protect(func() Outputs { return p.fallback(c, env) })
	}
	return out, err
}

func protect(fn func() Outputs) (out Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "processor panic")
			} else {
				err = errors.New("processor panic: " + fmt.Sprint(r))
			}
		}
	}()
	return fn(), nil
}
