// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"github.com/db47h/sigsim"
)

// DefaultColor is the default color of a light.
//
const DefaultColor = "255,255,255,255"

// display mirrors its input. The value setting is only shown until the first
// tick after Init; an input without signal displays nothing.
func newDisplay() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "display",
		Inputs:   []string{pIn},
		Defaults: sigsim.Settings{"value": nil},
		Process:  func(*sigsim.Component, *sigsim.Env) sigsim.Outputs { return nil },
		Display: func(c *sigsim.Component) sigsim.Value {
			if v := c.Input(pIn); sigsim.Active(v) {
				return v
			}
			return nil
		},
		Init: func(c *sigsim.Component) { c.DisplayValue = c.Settings.Value("value", nil) },
	}
}

// Lamp is the display value of a light.
//
type Lamp struct {
	On    bool   `json:"on"`
	Color string `json:"color"`
}

func (l Lamp) String() string {
	if l.On {
		return "on " + l.Color
	}
	return "off"
}

type light struct {
	Lamp
	toggle sigsim.Value // previous toggle input
}

// light pins
const (
	pSetState = "set_state"
	pToggle   = "toggle"
	pSetColor = "set_color"
)

// light is switched on or off by set_state, flipped by toggle and colored by
// set_color. Toggle fires on an active value different from the previous
// toggle input: a steady signal flips the light once.
func newLight() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "light",
		Inputs:   []string{pSetState, pToggle, pSetColor},
		Defaults: sigsim.Settings{"isOn": false, "color": DefaultColor},
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			p := sigsim.LocalState[perTick[light]](c)
			l := p.begin(env.Tick)
			if v := c.Input(pSetState); sigsim.Active(v) {
				l.On = sigsim.Truthy(v)
			}
			t := c.Input(pToggle)
			if sigsim.Active(t) && !sigsim.Equal(t, l.toggle) {
				l.On = !l.On
			}
			l.toggle = t
			if v := c.Input(pSetColor); sigsim.Active(v) {
				l.Color = sigsim.String(v)
			}
			p.set(l)
			return nil
		},
		Display: func(c *sigsim.Component) sigsim.Value {
			return sigsim.LocalState[perTick[light]](c).cur.Lamp
		},
		Init: func(c *sigsim.Component) {
			p := &perTick[light]{}
			p.cur.On = c.Settings.Bool("isOn", false)
			p.cur.Color = c.Settings.String("color", DefaultColor)
			c.State.Local = p
			c.DisplayValue = p.cur.Lamp
		},
		Invalidate: func(c *sigsim.Component) {
			sigsim.LocalState[perTick[light]](c).cur.toggle = nil
		},
	}
}

// sinks returns the parts with no outputs.
//
//	display: shows signal_in
//	light:   a lamp (see Lamp)
//
func sinks() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newDisplay(),
		newLight(),
	}
}
