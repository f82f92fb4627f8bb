// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Wire connects an output pin to an input pin. Its endpoints never change
// once created. Value is the last value it carried, for display only.
//
type Wire struct {
	ID      string
	FromID  string
	FromPin string
	ToID    string
	ToPin   string
	Value   Value
}

// From returns the source pin of w.
//
func (w *Wire) From() PinRef { return PinRef{w.FromID, w.FromPin} }

// To returns the destination pin of w.
//
func (w *Wire) To() PinRef { return PinRef{w.ToID, w.ToPin} }

// ID prefixes used by NextComponentID and NextWireID.
//
const (
	ComponentPrefix = "component-"
	WirePrefix      = "wire-"
)

// Circuit holds the components and wires of a board, in insertion order.
// It is plain data: it does not run anything.
//
// Any structural change (adding or removing a component or wire) clears the
// inputs and transient state of every component so that stale signals do not
// leak into the new topology.
//
type Circuit struct {
	comps  []*Component
	byID   map[string]*Component
	wires  []*Wire
	wireID map[string]*Wire

	nextComp int
	nextWire int
	version  uint64
}

// NewCircuit returns an empty circuit.
//
func NewCircuit() *Circuit {
	return &Circuit{
		byID:     make(map[string]*Component),
		wireID:   make(map[string]*Wire),
		nextComp: 1,
		nextWire: 1,
	}
}

// Components returns the components in insertion order. The returned slice
// must not be modified.
//
func (c *Circuit) Components() []*Component { return c.comps }

// Wires returns the wires in insertion order. The returned slice must not be
// modified.
//
func (c *Circuit) Wires() []*Wire { return c.wires }

// Component returns the component with the given id or nil.
//
func (c *Circuit) Component(id string) *Component { return c.byID[id] }

// Wire returns the wire with the given id or nil.
//
func (c *Circuit) Wire(id string) *Wire { return c.wireID[id] }

// Size returns the component count.
//
func (c *Circuit) Size() int { return len(c.comps) }

// Version is incremented on every structural change.
//
func (c *Circuit) Version() uint64 { return c.version }

// AddComponent adds p to the circuit. The component ID must be unique.
//
func (c *Circuit) AddComponent(p *Component) error {
	if p == nil || p.ID == "" {
		return errors.New("component has no ID")
	}
	if p.Type == "" {
		return errors.Errorf("component %s has no type", p.ID)
	}
	if _, ok := c.byID[p.ID]; ok {
		return errors.Errorf("duplicate component ID %s", p.ID)
	}
	if p.Settings == nil {
		p.Settings = make(Settings)
	}
	c.comps = append(c.comps, p)
	c.byID[p.ID] = p
	if n, ok := suffix(p.ID); ok && n >= c.nextComp {
		c.nextComp = n + 1
	}
	c.changed()
	return nil
}

// RemoveComponent removes the component with the given ID together with every
// wire attached to it. It returns false if there is no such component.
//
func (c *Circuit) RemoveComponent(id string) bool {
	p := c.byID[id]
	if p == nil {
		return false
	}
	delete(c.byID, id)
	c.comps = removeItem(c.comps, p)
	ws := c.wires[:0]
	for _, w := range c.wires {
		if w.FromID == id || w.ToID == id {
			delete(c.wireID, w.ID)
			continue
		}
		ws = append(ws, w)
	}
	for i := len(ws); i < len(c.wires); i++ {
		c.wires[i] = nil
	}
	c.wires = ws
	c.changed()
	return true
}

// AddWire adds w to the circuit. The wire ID must be unique and all endpoint
// fields set. Endpoints need not exist: a wire whose source is missing simply
// carries no value.
//
func (c *Circuit) AddWire(w *Wire) error {
	if w == nil || w.ID == "" {
		return errors.New("wire has no ID")
	}
	if w.FromID == "" || w.FromPin == "" || w.ToID == "" || w.ToPin == "" {
		return errors.Errorf("wire %s has an incomplete endpoint %s -> %s", w.ID, w.From(), w.To())
	}
	if _, ok := c.wireID[w.ID]; ok {
		return errors.Errorf("duplicate wire ID %s", w.ID)
	}
	c.wires = append(c.wires, w)
	c.wireID[w.ID] = w
	if n, ok := suffix(w.ID); ok && n >= c.nextWire {
		c.nextWire = n + 1
	}
	c.changed()
	return nil
}

// Connect creates a wire with a fresh ID from fromID.fromPin to toID.toPin.
//
func (c *Circuit) Connect(fromID, fromPin, toID, toPin string) (*Wire, error) {
	w := &Wire{ID: c.NextWireID(), FromID: fromID, FromPin: fromPin, ToID: toID, ToPin: toPin}
	if err := c.AddWire(w); err != nil {
		return nil, err
	}
	return w, nil
}

// RemoveWire removes the wire with the given ID. It returns false if there is
// no such wire.
//
func (c *Circuit) RemoveWire(id string) bool {
	w := c.wireID[id]
	if w == nil {
		return false
	}
	delete(c.wireID, id)
	c.wires = removeItem(c.wires, w)
	c.changed()
	return true
}

// NextComponentID returns an unused component ID.
//
func (c *Circuit) NextComponentID() string {
	for {
		id := ComponentPrefix + strconv.Itoa(c.nextComp)
		c.nextComp++
		if _, ok := c.byID[id]; !ok {
			return id
		}
	}
}

// NextWireID returns an unused wire ID.
//
func (c *Circuit) NextWireID() string {
	for {
		id := WirePrefix + strconv.Itoa(c.nextWire)
		c.nextWire++
		if _, ok := c.wireID[id]; !ok {
			return id
		}
	}
}

// Counters returns the next numeric suffixes that NextComponentID and
// NextWireID will try.
//
func (c *Circuit) Counters() (component, wire int) { return c.nextComp, c.nextWire }

// ClearWires clears the value of every wire.
//
func (c *Circuit) ClearWires() {
	for _, w := range c.wires {
		w.Value = nil
	}
}

func (c *Circuit) changed() {
	c.version++
	for _, p := range c.comps {
		p.clearTransient()
	}
}

func removeItem[T comparable](s []T, item T) []T {
	for i, v := range s {
		if v == item {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// suffix returns the number formed by the trailing digits of id.
func suffix(id string) (int, bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return 0, false
	}
	n, err := strconv.Atoi(id[i:])
	return n, err == nil
}
