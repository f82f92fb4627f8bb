// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"math"

	"github.com/db47h/sigsim"
)

// DefaultMaxFactorial is the default largest input accepted by factorial.
//
const DefaultMaxFactorial = 170

// binary ops
type binop func(a, b float64) float64

// newBinary returns the spec of a two-input arithmetic part. defB is the value
// used for a missing second operand.
//
// Besides the smoothing window (timeFrame), two-input parts support a sync
// gate (timeframe): when positive, each input keeps its last active value and
// the part only emits while both inputs have been received within the last
// timeframe seconds.
func newBinary(typ string, defB float64, op binop) *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     typ,
		Inputs:   []string{pIn1, pIn2},
		Outputs:  []string{pOut},
		Defaults: merge(numericDefaults(), sigsim.Settings{"timeframe": 0.0}),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			a, b, ok := operands(c, env)
			if !ok {
				return nil
			}
			return sigsim.Outputs{pOut: finish(c, env, op(num(a, 0), num(b, defB)))}
		},
	}
}

// operands returns the values of both inputs, applying the sync gate.
func operands(c *sigsim.Component, env *sigsim.Env) (a, b sigsim.Value, ok bool) {
	a, b = c.Input(pIn1), c.Input(pIn2)
	tf := c.Settings.Float("timeframe", 0)
	if tf <= 0 {
		return a, b, true
	}
	a, ta, okA := c.Received(pIn1, a, env.Now)
	b, tb, okB := c.Received(pIn2, b, env.Now)
	if !okA || !okB {
		return nil, nil, false
	}
	w := sigsim.Seconds(tf)
	return a, b, env.Now.Sub(ta) <= w && env.Now.Sub(tb) <= w
}

var (
	opAdd = func(a, b float64) float64 { return a + b }
	opSub = func(a, b float64) float64 { return a - b }
	opMul = func(a, b float64) float64 { return a * b }
	opDiv = func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}
	opMod = func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return math.Mod(a, b)
	}
)

// unary ops
func newUnary(typ string, fn func(float64) float64) *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     typ,
		Inputs:   []string{pIn},
		Outputs:  []string{pOut},
		Defaults: numericDefaults(),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			in := c.Input(pIn)
			if !sigsim.Active(in) {
				return sigsim.Outputs{pOut: finish(c, env, fn(0))}
			}
			x, ok := sigsim.Number(in)
			if !ok {
				// non-numeric signals pass through unchanged
				return sigsim.Outputs{pOut: in}
			}
			return sigsim.Outputs{pOut: finish(c, env, fn(x))}
		},
	}
}

// roundHalfUp rounds half-way values towards +Inf.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

// Pow returns base**exp, or 0 for a negative base with a non-integer exponent.
//
func Pow(base, exp float64) float64 {
	if base < 0 && exp != math.Trunc(exp) {
		return 0
	}
	return math.Pow(base, exp)
}

// Factorial returns n! if n is a non-negative integer no greater than limit,
// 0 otherwise.
//
func Factorial(n float64, limit int) float64 {
	if math.IsNaN(n) || n < 0 || n != math.Trunc(n) || n > float64(limit) {
		return 0
	}
	r := 1.0
	for i := 2.0; i <= n; i++ {
		r *= i
	}
	return r
}

func newExponentiate() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "exponentiate",
		Inputs:   []string{pIn, "set_exponent"},
		Outputs:  []string{pOut},
		Defaults: merge(numericDefaults(), sigsim.Settings{"exponent": 1.0}),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			exp := c.Settings.Float("exponent", 1)
			if v, ok := sigsim.Number(c.Input("set_exponent")); ok {
				exp = v
			}
			return sigsim.Outputs{pOut: finish(c, env, Pow(num(c.Input(pIn), 0), exp))}
		},
	}
}

func newFactorial() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "factorial",
		Inputs:   []string{pIn},
		Outputs:  []string{pOut},
		Defaults: merge(numericDefaults(), sigsim.Settings{"maxInput": float64(DefaultMaxFactorial)}),
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			n := num(c.Input(pIn), 0)
			return sigsim.Outputs{pOut: finish(c, env, Factorial(n, c.Settings.Int("maxInput", DefaultMaxFactorial)))}
		},
	}
}

// arith returns the arithmetic parts.
//
//	add:          out = in1 + in2
//	subtract:     out = in1 - in2
//	multiply:     out = in1 * in2
//	divide:       out = in1 / in2, 0 if in2 == 0
//	modulo:       out = in1 % in2 (sign of in1), 0 if in2 == 0; a missing in2 is 1
//	exponentiate: out = in ** exponent (set_exponent overrides the setting)
//	factorial:    out = in!, 0 unless in is an integer in [0, maxInput]
//	sqrt:         out = √in, NaN for negative inputs
//	round, abs, ceil, floor
//
func arith() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newBinary("add", 0, opAdd),
		newBinary("subtract", 0, opSub),
		newBinary("multiply", 0, opMul),
		newBinary("divide", 0, opDiv),
		newBinary("modulo", 1, opMod),
		newExponentiate(),
		newFactorial(),
		newUnary("sqrt", math.Sqrt),
		newUnary("round", roundHalfUp),
		newUnary("abs", math.Abs),
		newUnary("ceil", math.Ceil),
		newUnary("floor", math.Floor),
	}
}
