// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"github.com/db47h/sigsim"
)

type boolop func(a, b bool) bool

func logicDefaults() sigsim.Settings {
	return merge(outputDefaults(), sigsim.Settings{
		"timeFrame":  0.0,
		"threshold":  defThreshold,
		"hysteresis": 0.0,
	})
}

// newGate returns the spec of a two-input logic gate.
func newGate(typ string, op boolop) *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     typ,
		Inputs:   []string{pIn1, pIn2, pSetOutput},
		Outputs:  []string{pOut},
		Defaults: logicDefaults(),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			if v := c.Input(pSetOutput); sigsim.Active(v) {
				return emit(c, v)
			}
			r := op(sigsim.Truthy(c.Input(pIn1)), sigsim.Truthy(c.Input(pIn2)))
			return choose(c, decide(c, env, r))
		},
	}
}

// decide smooths a raw gate result. With a positive timeFrame, the fraction of
// the window during which the gate was true is compared to threshold through
// the hysteresis latch.
func decide(c *sigsim.Component, env *sigsim.Env, r bool) bool {
	tf := c.Settings.Float("timeFrame", 0)
	if tf <= 0 {
		return r
	}
	x := 0.0
	if r {
		x = 1
	}
	avg := env.Average(c, x, tf)
	return env.Latch(c, avg, c.Settings.Float("threshold", defThreshold), c.Settings.Float("hysteresis", 0))
}

func newNot() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "not",
		Inputs:   []string{pIn, pSetOutput},
		Outputs:  []string{pOut},
		Defaults: outputDefaults(),
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			if v := c.Input(pSetOutput); sigsim.Active(v) {
				return emit(c, v)
			}
			return choose(c, !sigsim.Truthy(c.Input(pIn)))
		},
	}
}

// logic returns the boolean gates.
//
//	Inputs: signal_in1, signal_in2 (signal_in for not), set_output
//	Outputs: signal_out
//	Function: and, or, xor and not of the inputs' truthiness
//
// An active set_output input bypasses the gate and is emitted as is.
//
func logic() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newGate("and", func(a, b bool) bool { return a && b }),
		newGate("or", func(a, b bool) bool { return a || b }),
		newGate("xor", func(a, b bool) bool { return a != b }),
		newNot(),
	}
}
