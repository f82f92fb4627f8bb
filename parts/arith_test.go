// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	sim "github.com/db47h/sigsim"
	"github.com/db47h/sigsim/parts"
	"github.com/db47h/sigsim/simtest"
)

var reg = parts.Registry()

func spec(t *testing.T, typ string) *sim.PartSpec {
	t.Helper()
	p, ok := reg.Lookup(typ)
	if !ok {
		t.Fatalf("no part %q", typ)
	}
	return p
}

type in = map[string]sim.Value

// sequence evaluates a single component of type typ with the given settings
// once per entry of inputs, one second apart, and returns its signal_out
// values.
func sequence(t *testing.T, typ string, settings sim.Settings, inputs ...in) []sim.Value {
	t.Helper()
	p := spec(t, typ)
	c, err := reg.NewComponent("test", typ)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range settings {
		c.Settings[k] = v
	}
	if p.Init != nil {
		p.Init(c)
	}
	var out []sim.Value
	for i, vs := range inputs {
		c.Inputs = make(map[string]sim.Value)
		for k, v := range vs {
			c.Inputs[k] = v
		}
		env := &sim.Env{
			Tick:       uint64(i + 1),
			Now:        simtest.Epoch.Add(time.Duration(i) * time.Second),
			Rand:       rand.New(rand.NewSource(1)),
			HistoryCap: sim.DefaultHistoryCap,
		}
		out = append(out, p.Process(c, env)["signal_out"])
	}
	return out
}

func Test_arith(t *testing.T) {
	nan := math.NaN()
	td := []struct {
		typ      string
		settings sim.Settings
		in       in
		exp      sim.Value
	}{
		{"add", nil, in{"signal_in1": 2.0, "signal_in2": "3"}, 5.0},
		{"add", nil, in{"signal_in1": 2.0}, 2.0},
		{"add", nil, in{"signal_in1": 2.0, "signal_in2": "junk"}, 2.0},
		{"add", nil, in{"signal_in1": 1e7}, 999999.0},
		{"subtract", nil, in{"signal_in1": 2.0, "signal_in2": 5.0}, -3.0},
		{"multiply", nil, in{"signal_in1": true, "signal_in2": 5.0}, 5.0},
		{"divide", nil, in{"signal_in1": 10.0, "signal_in2": 0.0}, 0.0},
		{"divide", sim.Settings{"precision": 2.0}, in{"signal_in1": 1.0, "signal_in2": 3.0}, 0.33},
		{"modulo", nil, in{"signal_in1": -7.0, "signal_in2": 3.0}, -1.0},
		{"modulo", nil, in{"signal_in1": 7.5}, 0.5},
		{"modulo", nil, in{"signal_in1": 7.0, "signal_in2": 0.0}, 0.0},
		{"exponentiate", sim.Settings{"exponent": 3.0}, in{"signal_in": 2.0}, 8.0},
		{"exponentiate", nil, in{"signal_in": -8.0, "set_exponent": 0.5}, 0.0},
		{"factorial", nil, in{"signal_in": 5.0}, 120.0},
		{"factorial", nil, in{"signal_in": 171.0}, 0.0},
		{"factorial", nil, in{"signal_in": 2.5}, 0.0},
		{"factorial", sim.Settings{"clampMax": 1e308}, in{"signal_in": 170.0}, parts.Factorial(170, 170)},
		{"sqrt", nil, in{"signal_in": 16.0}, 4.0},
		{"sqrt", nil, in{"signal_in": -1.0}, nan},
		{"round", nil, in{"signal_in": 2.5}, 3.0},
		{"round", nil, in{"signal_in": -2.5}, -2.0},
		{"round", nil, in{"signal_in": "abc"}, "abc"},
		{"abs", nil, in{}, 0.0},
		{"abs", nil, in{"signal_in": -3.0}, 3.0},
		{"ceil", nil, in{"signal_in": 1.2}, 2.0},
		{"floor", nil, in{"signal_in": "-1.2"}, -2.0},
	}
	for _, d := range td {
		got := sequence(t, d.typ, d.settings, d.in)[0]
		if !sim.Equal(got, d.exp) {
			t.Errorf("%s(%v) = %#v, expected %#v", d.typ, d.in, got, d.exp)
		}
	}
}

func Test_arith_average_then_clamp(t *testing.T) {
	seq := []in{
		{"signal_in1": 10.0},
		{"signal_in1": 10.0},
		{"signal_in1": 0.0},
		{"signal_in1": 10.0},
	}
	out := sequence(t, "add", sim.Settings{"timeFrame": 10.0, "clampMax": 10.0}, seq...)
	if out[3] != 7.5 {
		t.Errorf("averaged output = %v, expected 7.5", out[3])
	}
}

func Test_arith_sync_gate(t *testing.T) {
	out := sequence(t, "add", sim.Settings{"timeframe": 1.5},
		in{"signal_in1": 1.0},
		in{"signal_in2": 2.0},
		in{},
		in{},
		in{"signal_in2": 5.0},
	)
	exp := []sim.Value{nil, 3.0, nil, nil, nil}
	for i := range exp {
		if !sim.Equal(out[i], exp[i]) {
			t.Errorf("step %d: got %v, expected %v", i, out[i], exp[i])
		}
	}
}

func Test_arith_reference(t *testing.T) {
	gen := func(r *rand.Rand) sim.Value { return float64(r.Intn(2000) - 1000) }
	simtest.ComparePart(t, spec(t, "multiply"), 100, gen, func(m in) sim.Outputs {
		a, b := m["signal_in1"].(float64), m["signal_in2"].(float64)
		return sim.Outputs{"signal_out": math.Max(-999999, math.Min(999999, a*b))}
	})
	simtest.ComparePart(t, spec(t, "subtract"), 100, gen, func(m in) sim.Outputs {
		return sim.Outputs{"signal_out": m["signal_in1"].(float64) - m["signal_in2"].(float64)}
	})
}
