// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim_test

import (
	"testing"

	sim "github.com/db47h/sigsim"
)

func Test_circuit_ids(t *testing.T) {
	c := sim.NewCircuit()
	if id := c.NextComponentID(); id != "component-1" {
		t.Fatalf("first ID = %s", id)
	}
	for _, id := range []string{"component-7", "adder", "component-3"} {
		if err := c.AddComponent(sim.NewComponent(id, "add", nil)); err != nil {
			t.Fatal(err)
		}
	}
	if id := c.NextComponentID(); id != "component-8" {
		t.Errorf("NextComponentID = %s, expected component-8", id)
	}
	if err := c.AddComponent(sim.NewComponent("adder", "add", nil)); err == nil {
		t.Error("duplicate component ID accepted")
	}
	if err := c.AddComponent(sim.NewComponent("x", "", nil)); err == nil {
		t.Error("component without type accepted")
	}

	if err := c.AddWire(&sim.Wire{ID: "wire-12", FromID: "adder", FromPin: "signal_out", ToID: "component-7", ToPin: "signal_in1"}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddWire(&sim.Wire{ID: "w", FromID: "adder", ToID: "component-7", ToPin: "signal_in1"}); err == nil {
		t.Error("wire with incomplete endpoint accepted")
	}
	w, err := c.Connect("component-3", "signal_out", "adder", "signal_in2")
	if err != nil {
		t.Fatal(err)
	}
	if w.ID != "wire-13" {
		t.Errorf("Connect ID = %s, expected wire-13", w.ID)
	}
	if cn, wn := c.Counters(); cn != 9 || wn != 14 {
		t.Errorf("Counters = %d, %d, expected 9, 14", cn, wn)
	}
}

func Test_circuit_remove(t *testing.T) {
	c := sim.NewCircuit()
	for _, id := range []string{"a", "b", "c"} {
		if err := c.AddComponent(sim.NewComponent(id, "add", nil)); err != nil {
			t.Fatal(err)
		}
	}
	mustConnect := func(from, to string) *sim.Wire {
		t.Helper()
		w, err := c.Connect(from, "signal_out", to, "signal_in1")
		if err != nil {
			t.Fatal(err)
		}
		return w
	}
	mustConnect("a", "b")
	w := mustConnect("b", "c")
	mustConnect("c", "a")

	c.Component("c").Inputs["signal_in1"] = 1.0
	v := c.Version()
	if !c.RemoveComponent("a") {
		t.Fatal("RemoveComponent failed")
	}
	if c.Version() == v {
		t.Error("version not bumped")
	}
	if len(c.Wires()) != 1 || c.Wires()[0] != w {
		t.Errorf("wires after removal: %v", c.Wires())
	}
	if len(c.Component("c").Inputs) != 0 {
		t.Error("inputs not cleared on topology change")
	}
	if c.RemoveComponent("a") || c.RemoveWire("nope") {
		t.Error("removing missing items succeeded")
	}
	if !c.RemoveWire(w.ID) || c.Wire(w.ID) != nil || len(c.Wires()) != 0 {
		t.Error("RemoveWire failed")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d", c.Size())
	}
}
