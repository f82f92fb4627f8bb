// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing circuits and parts:
// a manual scheduler, a fake wall clock, and a Bench that builds and steps
// small circuits deterministically.
//
package simtest

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/db47h/sigsim"
)

// Epoch is the start time of fake clocks.
//
var Epoch = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a wall clock that only moves when told to.
//
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFakeClock returns a fake clock set to Epoch.
//
func NewFakeClock() *FakeClock { return &FakeClock{t: Epoch} }

// Now returns the current fake time.
//
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
//
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ManualScheduler is a sigsim.Scheduler that never fires on its own. Call Fire
// to run one period of every active schedule.
//
type ManualScheduler struct {
	mu    sync.Mutex
	next  int
	tasks map[int]func()
}

type manualHandle struct {
	s  *ManualScheduler
	id int
}

func (h manualHandle) Cancel() {
	h.s.mu.Lock()
	delete(h.s.tasks, h.id)
	h.s.mu.Unlock()
}

// Every implements sigsim.Scheduler. The period is ignored.
//
func (s *ManualScheduler) Every(_ time.Duration, fn func()) sigsim.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks == nil {
		s.tasks = make(map[int]func())
	}
	s.next++
	s.tasks[s.next] = fn
	return manualHandle{s, s.next}
}

// Active returns the number of active schedules.
//
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Fire calls every active schedule once, in scheduling order, and returns the
// number of calls.
//
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = s.tasks[id]
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Bench is a circuit under test, simulated with a fake clock and a seeded
// random source. Every Step advances the clock by Period before ticking.
//
type Bench struct {
	TB      testing.TB
	Circuit *sigsim.Circuit
	Reg     *sigsim.Registry
	Sim     *sigsim.Simulation
	Clock   *FakeClock
	Period  time.Duration
}

// NewBench returns a bench for an empty circuit using the part types of reg.
// opts are passed to sigsim.New after the bench's own clock and random source
// so that they can be overridden.
//
func NewBench(tb testing.TB, reg *sigsim.Registry, opts ...sigsim.Option) *Bench {
	b := &Bench{
		TB:      tb,
		Circuit: sigsim.NewCircuit(),
		Reg:     reg,
		Clock:   NewFakeClock(),
		Period:  sigsim.DefaultPeriod,
	}
	opts = append([]sigsim.Option{
		sigsim.WithNow(b.Clock.Now),
		sigsim.WithRand(rand.New(rand.NewSource(1))),
	}, opts...)
	b.Sim = sigsim.New(b.Circuit, reg, opts...)
	return b
}

// Add adds a component of type typ with the given settings on top of the
// type's defaults.
//
func (b *Bench) Add(typ string, settings sigsim.Settings) *sigsim.Component {
	b.TB.Helper()
	c, err := b.Reg.NewComponent(b.Circuit.NextComponentID(), typ)
	if err != nil {
		b.TB.Fatal(err)
	}
	for k, v := range settings {
		c.Settings[k] = v
	}
	if p, ok := b.Reg.Lookup(typ); ok && p.Init != nil && len(settings) > 0 {
		p.Init(c)
	}
	if err = b.Circuit.AddComponent(c); err != nil {
		b.TB.Fatal(err)
	}
	return c
}

// Wire connects pin from.fromPin to pin to.toPin.
//
func (b *Bench) Wire(from *sigsim.Component, fromPin string, to *sigsim.Component, toPin string) *sigsim.Wire {
	b.TB.Helper()
	w, err := b.Circuit.Connect(from.ID, fromPin, to.ID, toPin)
	if err != nil {
		b.TB.Fatal(err)
	}
	return w
}

// Step advances the clock by one period and runs a tick.
//
func (b *Bench) Step() sigsim.TickStats {
	b.Clock.Advance(b.Period)
	return b.Sim.Tick()
}

// Run runs n steps and returns the stats of the last one.
//
func (b *Bench) Run(n int) sigsim.TickStats {
	var st sigsim.TickStats
	for i := 0; i < n; i++ {
		st = b.Step()
	}
	return st
}

// Wait runs steps until at least d has elapsed on the bench clock.
//
func (b *Bench) Wait(d time.Duration) sigsim.TickStats {
	var st sigsim.TickStats
	for end := b.Clock.Now().Add(d); b.Clock.Now().Before(end); {
		st = b.Step()
	}
	return st
}

// Invoke runs the processor of part p once for a detached component with the
// given settings and inputs, at time now. Settings are applied on top of the
// part's defaults.
//
func Invoke(p *sigsim.PartSpec, settings sigsim.Settings, inputs map[string]sigsim.Value, now time.Time) sigsim.Outputs {
	c := sigsim.NewComponent("test", p.Type, p.Defaults)
	for k, v := range settings {
		c.Settings[k] = v
	}
	if p.Init != nil {
		p.Init(c)
	}
	for k, v := range inputs {
		c.Inputs[k] = v
	}
	env := &sigsim.Env{Tick: 1, Now: now, Rand: rand.New(rand.NewSource(1)), HistoryCap: sigsim.DefaultHistoryCap}
	if p.Generate != nil {
		p.Generate(c, env)
	}
	return p.Process(c, env)
}

// A Generator returns a random signal value.
//
type Generator func(r *rand.Rand) sigsim.Value

// ComparePart feeds iter sets of random inputs to part p and compares its
// outputs to those of the reference function ref.
//
func ComparePart(t testing.TB, p *sigsim.PartSpec, iter int, gen Generator, ref func(in map[string]sigsim.Value) sigsim.Outputs) {
	t.Helper()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < iter; i++ {
		in := make(map[string]sigsim.Value, len(p.Inputs))
		for _, pin := range p.Inputs {
			in[pin] = gen(r)
		}
		ex := ref(in)
		got := Invoke(p, nil, in, Epoch)
		for _, pin := range p.Outputs {
			if !sigsim.Equal(ex[pin], got[pin]) {
				t.Fatal(errString(p, in, pin, ex[pin], got[pin]))
			}
		}
	}
}

func errString(p *sigsim.PartSpec, in map[string]sigsim.Value, pin string, ex, got sigsim.Value) string {
	var b strings.Builder
	for _, n := range p.Inputs {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", n, in[n])
	}
	return fmt.Sprintf("%s: expected %s => %s=%#v\nGot %#v", p.Type, b.String(), pin, ex, got)
}
