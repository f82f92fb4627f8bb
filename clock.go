// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"sync"
	"time"
)

// DefaultPeriod is the default tick period of a Clock.
//
const DefaultPeriod = 100 * time.Millisecond

// A Handle cancels a schedule returned by a Scheduler.
//
type Handle interface {
	Cancel()
}

// A Scheduler calls a function at a fixed period until the returned handle is
// cancelled. Calls must not overlap.
//
type Scheduler interface {
	Every(period time.Duration, fn func()) Handle
}

// TickerScheduler is a Scheduler backed by a time.Ticker running in its own
// goroutine.
//
type TickerScheduler struct{}

type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}

// Every implements Scheduler.
//
func (TickerScheduler) Every(period time.Duration, fn func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	t := time.NewTicker(period)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-t.C:
				// do not tick if cancelled while waiting
				select {
				case <-h.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

// ClockOption configures a Clock.
//
type ClockOption func(k *Clock)

// WithScheduler sets the scheduler used by Start. The default is a
// TickerScheduler.
//
func WithScheduler(s Scheduler) ClockOption {
	return func(k *Clock) { k.sched = s }
}

// WithPeriod sets the tick period. Non-positive values select DefaultPeriod.
//
func WithPeriod(d time.Duration) ClockOption {
	return func(k *Clock) {
		if d > 0 {
			k.period = d
		}
	}
}

// Clock drives a Simulation at a fixed period and serializes access to it:
// ticks never overlap with each other nor with functions run through Do.
//
type Clock struct {
	mu     sync.Mutex
	sim    *Simulation
	sched  Scheduler
	period time.Duration
	h      Handle
	gen    uint64
	hooks  []func(*Simulation, TickStats)
}

// NewClock returns a stopped clock driving sim.
//
func NewClock(sim *Simulation, opts ...ClockOption) *Clock {
	k := &Clock{sim: sim, sched: TickerScheduler{}, period: DefaultPeriod}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Period returns the tick period.
//
func (k *Clock) Period() time.Duration { return k.period }

// OnTick registers fn to be called after every tick, with the clock lock held.
//
func (k *Clock) OnTick(fn func(s *Simulation, st TickStats)) {
	k.mu.Lock()
	k.hooks = append(k.hooks, fn)
	k.mu.Unlock()
}

// Running reports whether the clock is started.
//
func (k *Clock) Running() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.h != nil
}

// Start starts ticking. It does nothing if the clock is already running.
//
func (k *Clock) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.h != nil {
		return
	}
	k.gen++
	gen := k.gen
	k.h = k.sched.Every(k.period, func() { k.scheduled(gen) })
	k.sim.log.Info("simulation started", "period", k.period)
}

// Stop stops ticking and clears all wire values. Component state is left
// untouched. It does nothing if the clock is not running.
//
func (k *Clock) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.h == nil {
		return
	}
	k.h.Cancel()
	k.h = nil
	k.sim.circuit.ClearWires()
	k.sim.log.Info("simulation stopped", "ticks", k.sim.ticks)
}

// Reset resets the simulation state (see Simulation.Reset). If the clock is
// running, an extra tick is run immediately.
//
func (k *Clock) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sim.Reset()
	if k.h != nil {
		k.tick()
	}
}

// Step runs a single tick, whether the clock is running or not.
//
func (k *Clock) Step() TickStats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick()
}

// Do calls fn with the clock lock held. Use it to edit the circuit while the
// clock is running.
//
func (k *Clock) Do(fn func(s *Simulation)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn(k.sim)
}

func (k *Clock) scheduled(gen uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	// stopped, or stopped and restarted, while this tick was waiting.
	if k.h == nil || k.gen != gen {
		return
	}
	k.tick()
}

func (k *Clock) tick() TickStats {
	st := k.sim.Tick()
	for _, fn := range k.hooks {
		fn(k.sim, st)
	}
	return st
}
