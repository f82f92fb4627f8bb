// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package parts provides the library of built-in component types for sigsim.
//
// Unless stated otherwise, two-input parts read signal_in1 and signal_in2,
// single input parts read signal_in, and every part writes signal_out.
//
// Numeric parts share a common output pipeline: the raw result is clamped to
// [clampMin, clampMax], smoothed over the last timeFrame seconds if timeFrame
// is positive, clamped again, then rounded to precision decimals (no rounding
// if precision is negative). String outputs are truncated to maxOutputLength
// characters.
//
package parts

import (
	"math"
	"unicode/utf8"

	"github.com/db47h/sigsim"
)

// common pin names
const (
	pIn        = "signal_in"
	pIn1       = "signal_in1"
	pIn2       = "signal_in2"
	pOut       = "signal_out"
	pSetOutput = "set_output"
)

// defaults shared by many parts
const (
	defClampMin        = -999999.0
	defClampMax        = 999999.0
	defMaxOutputLength = 256
	defThreshold       = 0.5
)

// Specs returns new instances of all built-in part specs.
//
func Specs() []*sigsim.PartSpec {
	var ps []*sigsim.PartSpec
	ps = append(ps, arith()...)
	ps = append(ps, compare()...)
	ps = append(ps, logic()...)
	ps = append(ps, signal()...)
	ps = append(ps, generators()...)
	ps = append(ps, sinks()...)
	return ps
}

// Registry returns a new registry holding all built-in parts.
//
func Registry() *sigsim.Registry {
	r, err := sigsim.NewRegistry(Specs()...)
	if err != nil {
		panic(err)
	}
	return r
}

func numericDefaults() sigsim.Settings {
	return sigsim.Settings{
		"clampMin":  defClampMin,
		"clampMax":  defClampMax,
		"timeFrame": 0.0,
		"precision": -1.0,
	}
}

func outputDefaults() sigsim.Settings {
	return sigsim.Settings{
		"output":          1.0,
		"falseOutput":     0.0,
		"maxOutputLength": float64(defMaxOutputLength),
	}
}

func merge(ss ...sigsim.Settings) sigsim.Settings {
	r := make(sigsim.Settings)
	for _, s := range ss {
		for k, v := range s {
			r[k] = v
		}
	}
	return r
}

// finish runs the numeric output pipeline on v.
func finish(c *sigsim.Component, env *sigsim.Env, v float64) float64 {
	s := c.Settings
	lo, hi := s.Float("clampMin", defClampMin), s.Float("clampMax", defClampMax)
	v = clamp(v, lo, hi)
	if tf := s.Float("timeFrame", 0); tf > 0 {
		v = clamp(env.Average(c, v, tf), lo, hi)
	}
	return round(v, s.Int("precision", -1))
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case math.IsNaN(v):
		return v
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func round(v float64, decimals int) float64 {
	if decimals < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if decimals > 15 {
		decimals = 15
	}
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

// truncate shortens string values to at most n characters.
func truncate(v sigsim.Value, n int) sigsim.Value {
	s, ok := v.(string)
	if !ok || n < 0 || utf8.RuneCountInString(s) <= n {
		return v
	}
	i, k := 0, 0
	for i = range s {
		if k == n {
			break
		}
		k++
	}
	return s[:i]
}

// num coerces v to a number. Inactive values yield def, non-numeric ones 0.
func num(v sigsim.Value, def float64) float64 {
	if !sigsim.Active(v) {
		return def
	}
	if f, ok := sigsim.Number(v); ok {
		return f
	}
	return 0
}

// emit returns v on the output pin, truncated to maxOutputLength. Inactive
// values emit nothing.
func emit(c *sigsim.Component, v sigsim.Value) sigsim.Outputs {
	if !sigsim.Active(v) {
		return nil
	}
	return sigsim.Outputs{pOut: truncate(v, c.Settings.Int("maxOutputLength", defMaxOutputLength))}
}

// choose emits the true or false output of c. An active set_output input
// replaces the true output.
func choose(c *sigsim.Component, cond bool) sigsim.Outputs {
	if !cond {
		return emit(c, c.Settings.Value("falseOutput", 0.0))
	}
	if v := c.Input(pSetOutput); sigsim.Active(v) {
		return emit(c, v)
	}
	return emit(c, c.Settings.Value("output", 1.0))
}

// perTick holds part state as of the end of the previous tick so that every
// evaluation within a tick starts from the same base. T must be a value type
// or be copied by the caller before being modified.
type perTick[T any] struct {
	tick uint64
	base T
	cur  T
}

// begin returns the base state for the given tick.
func (p *perTick[T]) begin(tick uint64) T {
	if p.tick != tick {
		p.tick = tick
		p.base = p.cur
	}
	return p.base
}

// set stores the state computed for the current tick.
func (p *perTick[T]) set(v T) { p.cur = v }
