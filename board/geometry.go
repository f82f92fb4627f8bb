// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package board

import (
	"github.com/db47h/sigsim"
)

// Point is a position on the board.
//
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// A Geometry locates component pins on the board.
//
type Geometry interface {
	// PinPosition returns the position of the named pin of c. ok is false if
	// c has no such pin.
	PinPosition(c *Component, pin string) (p Point, ok bool)
}

// EdgeGeometry lays input pins evenly on the left edge of a component and
// output pins on its right edge, in the order defined by the part spec.
//
type EdgeGeometry struct {
	Registry *sigsim.Registry
}

// PinPosition implements Geometry.
//
func (g EdgeGeometry) PinPosition(c *Component, pin string) (Point, bool) {
	p, ok := g.Registry.Lookup(c.Type)
	if !ok {
		return Point{}, false
	}
	if i := index(p.Inputs, pin); i >= 0 {
		return Point{c.X, c.Y + c.Height*float64(i+1)/float64(len(p.Inputs)+1)}, true
	}
	if i := index(p.Outputs, pin); i >= 0 {
		return Point{c.X + c.Width, c.Y + c.Height*float64(i+1)/float64(len(p.Outputs)+1)}, true
	}
	return Point{}, false
}

func index(pins []string, pin string) int {
	for i, p := range pins {
		if p == pin {
			return i
		}
	}
	return -1
}

// Path is the drawing of a wire: a straight line between two pins.
//
type Path struct {
	Wire string `json:"wire"`
	From Point  `json:"from"`
	To   Point  `json:"to"`
}

// WirePaths returns the paths of all wires of d whose both ends can be
// located by g.
//
func (d *Document) WirePaths(g Geometry) []Path {
	byID := make(map[string]*Component, len(d.Components))
	for i := range d.Components {
		byID[d.Components[i].ID] = &d.Components[i]
	}
	var ps []Path
	for _, w := range d.Wires {
		from, to := byID[w.From], byID[w.To]
		if from == nil || to == nil {
			continue
		}
		a, okA := g.PinPosition(from, w.FromPin)
		b, okB := g.PinPosition(to, w.ToPin)
		if okA && okB {
			ps = append(ps, Path{w.ID, a, b})
		}
	}
	return ps
}
