// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package sigsim provides a simulator for boards of logic and arithmetic
components connected by wires, in the spirit of shipboard signal networks:
signals are mixed digital and analog values (numbers, strings, booleans) and
propagate every tick.

A Circuit holds components and wires. A Registry maps component types to their
PartSpec (see the parts package for the built-in library). A Simulation runs
ticks over a circuit, and a Clock drives a simulation at a fixed period.

Each tick runs the generators once, then evaluates every component and
propagates outputs through the wires until nothing changes, bounded by
MaxIterations. When several wires end on the same input pin, the first active
value in wire order wins (see Aggregate).

	c := sigsim.NewCircuit()
	reg := parts.Registry()
	a, _ := reg.NewComponent(c.NextComponentID(), "constant")
	d, _ := reg.NewComponent(c.NextComponentID(), "display")
	c.AddComponent(a)
	c.AddComponent(d)
	c.Connect(a.ID, "signal_out", d.ID, "signal_in")

	sim := sigsim.New(c, reg)
	clk := sigsim.NewClock(sim)
	clk.Start()
	defer clk.Stop()

*/
package sigsim
