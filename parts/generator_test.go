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

func Test_constant(t *testing.T) {
	if got := sequence(t, "constant", nil, in{})[0]; got != 0.0 {
		t.Errorf("default constant = %#v", got)
	}
	if got := sequence(t, "constant", sim.Settings{"value": "ping"}, in{})[0]; got != "ping" {
		t.Errorf("constant = %#v", got)
	}
}

func Test_random_range(t *testing.T) {
	p := spec(t, "random")
	for i := 0; i < 50; i++ {
		out := simtest.Invoke(p, sim.Settings{"min": 5.0, "max": 1.0, "precision": 0.0}, nil, simtest.Epoch)
		x, ok := out["signal_out"].(float64)
		if !ok || x < 1 || x > 5 || x != math.Trunc(x) {
			t.Fatalf("random = %#v, expected an integer in [1, 5]", out["signal_out"])
		}
	}
}

// fixedSource always yields the same number.
type fixedSource int64

func (s fixedSource) Int63() int64 { return int64(s) }
func (fixedSource) Seed(int64)     {}

func Test_random_bounds(t *testing.T) {
	p := spec(t, "random")
	data := []struct {
		src  int64
		lo   float64
		hi   float64
		want float64
	}{
		{0, 1, 5, 1},
		{1 << 53, 1, 5, 5},
		{1 << 52, 1, 5, 3},
		{1 << 40, 2, 2, 2},
	}
	for _, d := range data {
		c := sim.NewComponent("r", "random", p.Defaults)
		c.Settings["min"], c.Settings["max"] = d.lo, d.hi
		env := &sim.Env{Tick: 1, Now: simtest.Epoch, Rand: rand.New(fixedSource(d.src))}
		p.Generate(c, env)
		if got := p.Process(c, env)["signal_out"]; got != d.want {
			t.Errorf("source %d in [%v, %v]: got %#v, expected %v", d.src, d.lo, d.hi, got, d.want)
		}
	}
}

func Test_random_period(t *testing.T) {
	b := simtest.NewBench(t, reg)
	r := b.Add("random", sim.Settings{"period": 0.25})
	d := b.Add("display", nil)
	b.Wire(r, "signal_out", d, "signal_in")
	var last sim.Value
	changes := 0
	for i := 0; i < 8; i++ {
		b.Step()
		if d.DisplayValue == nil {
			t.Fatalf("step %d: no random value", i+1)
		}
		if d.DisplayValue != last {
			changes++
			last = d.DisplayValue
		}
	}
	// steps at 0.1s intervals: draws at 0.1, 0.4 and 0.7
	if changes != 3 {
		t.Errorf("%d draws, expected 3", changes)
	}
	if exp := simtest.Epoch.Add(700 * time.Millisecond); !r.State.LastExecution.Equal(exp) {
		t.Errorf("LastExecution = %v, expected %v", r.State.LastExecution, exp)
	}
}

func Test_button(t *testing.T) {
	b := simtest.NewBench(t, reg)
	btn := b.Add("button", sim.Settings{"output": "go"})
	d := b.Add("display", nil)
	b.Wire(btn, "signal_out", d, "signal_in")
	if b.Step(); d.DisplayValue != nil {
		t.Errorf("released button emits %v", d.DisplayValue)
	}
	parts.Press(btn, true)
	if b.Step(); d.DisplayValue != "go" || !parts.Pressed(btn) {
		t.Errorf("pressed button emits %v", d.DisplayValue)
	}
	parts.Press(btn, false)
	if b.Step(); d.DisplayValue != nil {
		t.Errorf("released button emits %v", d.DisplayValue)
	}

	parts.Press(d, true)
	if parts.Pressed(d) {
		t.Error("pressed a display")
	}
}
