// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim_test

import (
	"testing"
	"time"

	sim "github.com/db47h/sigsim"
	"github.com/db47h/sigsim/parts"
	"github.com/db47h/sigsim/simtest"
)

func newClockBench(t *testing.T) (*simtest.Bench, *simtest.ManualScheduler, *sim.Clock, *sim.Wire, *sim.Component) {
	t.Helper()
	b := simtest.NewBench(t, parts.Registry())
	k := b.Add("constant", sim.Settings{"value": 3.0})
	r := b.Add("random", sim.Settings{"min": 10.0, "max": 20.0})
	d := b.Add("display", nil)
	w := b.Wire(k, "signal_out", d, "signal_in")
	s := new(simtest.ManualScheduler)
	clk := sim.NewClock(b.Sim, sim.WithScheduler(s), sim.WithPeriod(50*time.Millisecond))
	clk.OnTick(func(*sim.Simulation, sim.TickStats) { b.Clock.Advance(clk.Period()) })
	return b, s, clk, w, r
}

func Test_clock_start_stop(t *testing.T) {
	b, s, clk, w, r := newClockBench(t)
	if clk.Period() != 50*time.Millisecond {
		t.Fatalf("Period = %v", clk.Period())
	}
	clk.Start()
	clk.Start()
	if !clk.Running() || s.Active() != 1 {
		t.Fatalf("running %v with %d schedules", clk.Running(), s.Active())
	}
	s.Fire()
	s.Fire()
	if b.Sim.Ticks() != 2 || w.Value != 3.0 {
		t.Fatalf("ticks %d, wire value %v", b.Sim.Ticks(), w.Value)
	}
	rv := r.State.CurrentOutput

	clk.Stop()
	clk.Stop()
	if clk.Running() || s.Active() != 0 {
		t.Fatal("clock still running after Stop")
	}
	if w.Value != nil {
		t.Errorf("wire value %v after Stop", w.Value)
	}
	if r.State.CurrentOutput != rv {
		t.Error("Stop changed component state")
	}
	if s.Fire(); b.Sim.Ticks() != 2 {
		t.Error("ticked after Stop")
	}
}

func Test_clock_reset(t *testing.T) {
	b, _, clk, w, r := newClockBench(t)

	// stopped: no extra tick
	clk.Step()
	clk.Reset()
	if b.Sim.Ticks() != 1 || w.Value != nil || r.State.CurrentOutput != nil {
		t.Fatalf("after stopped reset: ticks %d, wire %v, random %v", b.Sim.Ticks(), w.Value, r.State.CurrentOutput)
	}

	// running: one immediate tick
	clk.Start()
	clk.Reset()
	if b.Sim.Ticks() != 2 || w.Value != 3.0 {
		t.Errorf("after running reset: ticks %d, wire %v", b.Sim.Ticks(), w.Value)
	}
	x, ok := r.State.CurrentOutput.(float64)
	if !ok || x < 10 || x >= 20 {
		t.Errorf("random output %v not in [10, 20)", r.State.CurrentOutput)
	}
	clk.Stop()
}

// keepScheduler never forgets a schedule, even cancelled ones.
type keepScheduler struct {
	fns []func()
}

type nopHandle struct{}

func (nopHandle) Cancel() {}

func (s *keepScheduler) Every(_ time.Duration, fn func()) sim.Handle {
	s.fns = append(s.fns, fn)
	return nopHandle{}
}

func Test_clock_stale_tick(t *testing.T) {
	b := simtest.NewBench(t, parts.Registry())
	s := new(keepScheduler)
	clk := sim.NewClock(b.Sim, sim.WithScheduler(s))
	clk.Start()
	clk.Stop()
	s.fns[0]()
	if b.Sim.Ticks() != 0 {
		t.Fatal("tick scheduled before Stop ran after it")
	}
	clk.Start()
	s.fns[0]()
	if b.Sim.Ticks() != 0 {
		t.Fatal("tick from a previous run ran after restart")
	}
	s.fns[1]()
	if b.Sim.Ticks() != 1 {
		t.Errorf("ticks = %d, expected 1", b.Sim.Ticks())
	}
	clk.Stop()
}
