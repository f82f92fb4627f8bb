// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"github.com/db47h/sigsim"
)

// greater compares signal_in1 to signal_in2.
//
// If timeFrame is positive, signal_in1 is averaged over that window before
// comparison. If hysteresis is positive, the result is latched: it becomes
// true once in1 >= in2 + hysteresis and false once in1 <= in2 - hysteresis.
// Non-numeric inputs select the false output.
func newGreater() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "greater",
		Inputs:   []string{pIn1, pIn2, pSetOutput},
		Outputs:  []string{pOut},
		Defaults: merge(outputDefaults(), sigsim.Settings{"hysteresis": 0.0, "timeFrame": 0.0}),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			a, okA := operand(c.Input(pIn1))
			b, okB := operand(c.Input(pIn2))
			if !okA || !okB {
				return choose(c, false)
			}
			if tf := c.Settings.Float("timeFrame", 0); tf > 0 {
				a = env.Average(c, a, tf)
			}
			if h := c.Settings.Float("hysteresis", 0); h > 0 {
				return choose(c, env.Latch(c, a, b, h))
			}
			return choose(c, a > b)
		},
	}
}

// operand returns the numeric value of a comparison input. Missing inputs
// count as 0, non-numeric ones are rejected.
func operand(v sigsim.Value) (float64, bool) {
	if !sigsim.Active(v) {
		return 0, true
	}
	return sigsim.Number(v)
}

// match reports whether a and b are the same signal: numerically equal when
// both are numbers, equal string forms otherwise.
func match(a, b sigsim.Value) bool {
	if sigsim.IsNumber(a) && sigsim.IsNumber(b) {
		fa, _ := sigsim.Number(a)
		fb, _ := sigsim.Number(b)
		return fa == fb
	}
	return sigsim.String(a) == sigsim.String(b)
}

func newEquals() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "equals",
		Inputs:   []string{pIn1, pIn2, pSetOutput},
		Outputs:  []string{pOut},
		Defaults: outputDefaults(),
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			a, b := c.Input(pIn1), c.Input(pIn2)
			return choose(c, sigsim.Active(a) && sigsim.Active(b) && match(a, b))
		},
	}
}

// signalcheck compares its input to the target setting. An active
// set_targetsignal input replaces the target.
func newSignalCheck() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "signalcheck",
		Inputs:   []string{pIn, "set_targetsignal", pSetOutput},
		Outputs:  []string{pOut},
		Defaults: merge(outputDefaults(), sigsim.Settings{"target": ""}),
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			in := c.Input(pIn)
			target := c.Input("set_targetsignal")
			if !sigsim.Active(target) {
				target = c.Settings.Value("target", "")
			}
			return choose(c, sigsim.Active(in) && match(in, target))
		},
	}
}

// compare returns the comparison parts.
//
//	greater:     in1 > in2
//	equals:      in1 == in2
//	signalcheck: in == target
//
// They emit output when the condition holds (set_output overrides it), and
// falseOutput otherwise.
//
func compare() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newGreater(),
		newEquals(),
		newSignalCheck(),
	}
}
