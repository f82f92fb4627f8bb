// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"math/rand"
	"time"

	"github.com/db47h/sigsim"
)

func newConstant() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "constant",
		Outputs:  []string{pOut},
		Defaults: sigsim.Settings{"value": 0.0},
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			return emit(c, c.Settings.Value("value", 0.0))
		},
	}
}

// unit returns a uniform number in the closed interval [0, 1].
func unit(r *rand.Rand) float64 {
	return float64(r.Int63n(1<<53+1)) / (1 << 53)
}

// random draws a new value in [min, max] every period seconds. Drawing happens
// once per tick, before propagation.
func newRandom() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:    "random",
		Outputs: []string{pOut},
		Defaults: sigsim.Settings{
			"min":       0.0,
			"max":       1.0,
			"period":    1.0,
			"precision": -1.0,
		},
		Generate: func(c *sigsim.Component, env *sigsim.Env) {
			st := &c.State
			period := sigsim.Seconds(c.Settings.Float("period", 1))
			if !st.LastExecution.IsZero() && env.Now.Sub(st.LastExecution) < period {
				return
			}
			lo, hi := c.Settings.Float("min", 0), c.Settings.Float("max", 1)
			if lo > hi {
				lo, hi = hi, lo
			}
			st.CurrentOutput = round(lo+unit(env.Rand)*(hi-lo), c.Settings.Int("precision", -1))
			st.LastExecution = env.Now
		},
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			if v := c.State.CurrentOutput; sigsim.Active(v) {
				return sigsim.Outputs{pOut: v}
			}
			return nil
		},
		Init: func(c *sigsim.Component) {
			c.State.LastExecution = time.Time{}
			c.State.CurrentOutput = nil
		},
	}
}

type button struct {
	pressed bool
}

// Press sets the pressed state of a button component. It does nothing if c
// is not a button. Call it through Clock.Do while the clock is running.
//
func Press(c *sigsim.Component, pressed bool) {
	if c.Type != "button" {
		return
	}
	sigsim.LocalState[button](c).pressed = pressed
}

// Pressed reports whether the button component c is pressed.
//
func Pressed(c *sigsim.Component) bool {
	b, ok := c.State.Local.(*button)
	return ok && b.pressed
}

func newButton() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "button",
		Outputs:  []string{pOut},
		Defaults: sigsim.Settings{"output": 1.0, "maxOutputLength": float64(defMaxOutputLength)},
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			if !Pressed(c) {
				return nil
			}
			return emit(c, c.Settings.Value("output", 1.0))
		},
		Init: func(c *sigsim.Component) { c.State.Local = nil },
	}
}

// generators returns the parts with no signal inputs.
//
//	constant: emits value
//	random:   emits a random number in [min, max), redrawn every period seconds
//	button:   emits output while pressed (see Press)
//
func generators() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newConstant(),
		newRandom(),
		newButton(),
	}
}
