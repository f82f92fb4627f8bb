// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// TickStats describes the outcome of one tick.
//
type TickStats struct {
	Tick       uint64
	Iterations int
	Stable     bool
	Duration   time.Duration
	Components int
	Wires      int
	Failures   int
}

// An Observer is notified of tick completions and processor failures.
// Observers are called synchronously from within the tick.
//
type Observer interface {
	TickDone(st TickStats)
	ProcessorFailed(c *Component, err error)
}

// Option configures a Simulation.
//
type Option func(s *Simulation)

// WithNow sets the wall clock used by the simulation.
//
func WithNow(now func() time.Time) Option {
	return func(s *Simulation) { s.now = now }
}

// WithRand sets the random source handed to generators.
//
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rand = r }
}

// WithLogger sets the simulation logger.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithObserver adds an observer.
//
func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.obs = append(s.obs, o) }
}

// WithHistoryCap bounds the number of samples kept by signal histories.
//
func WithHistoryCap(n int) Option {
	return func(s *Simulation) { s.historyCap = n }
}

// Simulation is a runnable circuit simulation: a circuit together with the
// registry of its part types and the environment processors run in.
//
// A Simulation is not safe for concurrent use. Use a Clock to drive it from a
// timer.
//
type Simulation struct {
	circuit  *Circuit
	registry *Registry

	now        func() time.Time
	rand       *rand.Rand
	log        *slog.Logger
	obs        []Observer
	historyCap int

	version uint64 // circuit version seen by the last tick
	ticks   uint64
	unknown map[string]bool
	fanIn   *fanIn
}

// New returns a new simulation of circuit c using part types from r.
//
func New(c *Circuit, r *Registry, opts ...Option) *Simulation {
	s := &Simulation{
		circuit:    c,
		registry:   r,
		now:        time.Now,
		historyCap: DefaultHistoryCap,
		unknown:    make(map[string]bool),
		fanIn:      newFanIn(0),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.version = c.Version()
	return s
}

// Circuit returns the simulated circuit.
//
func (s *Simulation) Circuit() *Circuit { return s.circuit }

// Registry returns the part registry.
//
func (s *Simulation) Registry() *Registry { return s.registry }

// Ticks returns the number of ticks run so far.
//
func (s *Simulation) Ticks() uint64 { return s.ticks }

// Logger returns the simulation logger.
//
func (s *Simulation) Logger() *slog.Logger { return s.log }

func (s *Simulation) env() *Env {
	return &Env{Tick: s.ticks, Now: s.now(), Rand: s.rand, Log: s.log, HistoryCap: s.historyCap}
}

// Reset clears all wire values, every component's inputs and transient state,
// and re-initializes each component to its baseline.
//
func (s *Simulation) Reset() {
	s.circuit.ClearWires()
	for _, c := range s.circuit.Components() {
		c.clearTransient()
		c.DisplayValue = nil
		p, ok := s.registry.Lookup(c.Type)
		if !ok {
			continue
		}
		if p.Invalidate != nil {
			p.Invalidate(c)
		}
		if p.Init != nil {
			p.Init(c)
		}
	}
	s.version = s.circuit.Version()
}

// invalidate runs part specific invalidation after a topology change.
// Circuit already cleared inputs and core transient state.
func (s *Simulation) invalidate() {
	for _, c := range s.circuit.Components() {
		if p, ok := s.registry.Lookup(c.Type); ok && p.Invalidate != nil {
			p.Invalidate(c)
		}
	}
	s.version = s.circuit.Version()
}

func (s *Simulation) spec(c *Component) *PartSpec {
	p, ok := s.registry.Lookup(c.Type)
	if !ok && !s.unknown[c.Type] {
		s.unknown[c.Type] = true
		s.log.Warn("unknown component type", "type", c.Type, "component", c.ID)
	}
	return p
}
