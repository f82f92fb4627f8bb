// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts_test

import (
	"testing"

	sim "github.com/db47h/sigsim"
)

func Test_compare(t *testing.T) {
	td := []struct {
		typ      string
		settings sim.Settings
		in       in
		exp      sim.Value
	}{
		{"greater", nil, in{"signal_in1": 5.0, "signal_in2": 3.0}, 1.0},
		{"greater", nil, in{"signal_in1": 3.0, "signal_in2": 3.0}, 0.0},
		{"greater", nil, in{"signal_in1": "hello", "signal_in2": 3.0}, 0.0},
		{"greater", nil, in{"signal_in1": 1.0}, 1.0},
		{"greater", sim.Settings{"output": "yes", "falseOutput": "no"}, in{"signal_in1": 1.0, "signal_in2": 2.0}, "no"},
		{"greater", nil, in{"signal_in1": 5.0, "signal_in2": 3.0, "set_output": "hot"}, "hot"},
		{"greater", sim.Settings{"falseOutput": ""}, in{"signal_in1": 1.0, "signal_in2": 2.0}, nil},
		{"equals", nil, in{"signal_in1": 2.0, "signal_in2": "2"}, 1.0},
		{"equals", nil, in{"signal_in1": 2.0, "signal_in2": "2.0"}, 0.0},
		{"equals", nil, in{"signal_in1": 2.0, "signal_in2": 2}, 1.0},
		{"equals", nil, in{"signal_in1": "abc", "signal_in2": "abc"}, 1.0},
		{"equals", nil, in{"signal_in1": "abc"}, 0.0},
		{"signalcheck", sim.Settings{"target": "open"}, in{"signal_in": "open"}, 1.0},
		{"signalcheck", sim.Settings{"target": "open"}, in{"signal_in": "shut"}, 0.0},
		{"signalcheck", sim.Settings{"target": "open"}, in{"signal_in": "shut", "set_targetsignal": "shut"}, 1.0},
		{"signalcheck", sim.Settings{"target": "open"}, in{"signal_in": "open", "set_output": 42.0}, 42.0},
	}
	for _, d := range td {
		got := sequence(t, d.typ, d.settings, d.in)[0]
		if !sim.Equal(got, d.exp) {
			t.Errorf("%s %v %v = %#v, expected %#v", d.typ, d.settings, d.in, got, d.exp)
		}
	}
}

func Test_greater_hysteresis(t *testing.T) {
	var seq []in
	for _, x := range []float64{0.55, 0.7, 0.5, 0.3} {
		seq = append(seq, in{"signal_in1": x, "signal_in2": 0.5})
	}
	out := sequence(t, "greater", sim.Settings{"hysteresis": 0.1}, seq...)
	exp := []float64{0, 1, 1, 0}
	for i := range exp {
		if out[i] != exp[i] {
			t.Errorf("step %d: got %v, expected %v", i, out[i], exp[i])
		}
	}
}

func Test_gates(t *testing.T) {
	result := map[string][]float64{
		// 00, 01, 10, 11
		"and": {0, 0, 0, 1},
		"or":  {0, 1, 1, 1},
		"xor": {0, 1, 1, 0},
	}
	values := []sim.Value{"", 1.0}
	for typ, exp := range result {
		for i := 0; i < 4; i++ {
			got := sequence(t, typ, nil, in{"signal_in1": values[i>>1], "signal_in2": values[i&1]})[0]
			if got != exp[i] {
				t.Errorf("%s(%d, %d) = %v, expected %v", typ, i>>1, i&1, got, exp[i])
			}
		}
	}
	if got := sequence(t, "not", nil, in{"signal_in": "0"})[0]; got != 1.0 {
		t.Errorf("not(\"0\") = %v, expected 1", got)
	}
	if got := sequence(t, "not", nil, in{"signal_in": "on"})[0]; got != 0.0 {
		t.Errorf("not(\"on\") = %v, expected 0", got)
	}
}

func Test_gate_override(t *testing.T) {
	// set_output bypasses the gate, whatever its inputs.
	for _, typ := range []string{"and", "or", "xor", "not"} {
		got := sequence(t, typ, nil, in{"set_output": "manual"})[0]
		if got != "manual" {
			t.Errorf("%s with override = %#v", typ, got)
		}
	}
}

func Test_gate_smoothing(t *testing.T) {
	// the fraction of time the AND gate is true goes 1, 0.5, 0.67, 0.5, 0.4,
	// 0.5: it latches high at once, drops at 0.4 and stays low at 0.5.
	on := in{"signal_in1": 1.0, "signal_in2": 1.0}
	off := in{"signal_in1": 1.0}
	out := sequence(t, "and", sim.Settings{"timeFrame": 10.0, "threshold": 0.5, "hysteresis": 0.05}, on, off, on, off, off, on)
	exp := []float64{1, 1, 1, 1, 0, 0}
	for i := range exp {
		if out[i] != exp[i] {
			t.Errorf("step %d: got %v, expected %v", i, out[i], exp[i])
		}
	}
}
