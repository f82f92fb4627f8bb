// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/sigsim"
)

// DefaultMaxQueue is the default capacity of a delay line.
//
const DefaultMaxQueue = 1024

func newConcat() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:    "concat",
		Inputs:  []string{pIn1, pIn2},
		Outputs: []string{pOut},
		Defaults: sigsim.Settings{
			"separator":       "",
			"maxOutputLength": float64(defMaxOutputLength),
		},
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			var parts []string
			for _, pin := range []string{pIn1, pIn2} {
				if v := c.Input(pin); sigsim.Active(v) {
					parts = append(parts, sigsim.String(v))
				}
			}
			if len(parts) == 0 {
				return nil
			}
			return emit(c, strings.Join(parts, c.Settings.String("separator", "")))
		},
	}
}

// color pins
const (
	pR = "signal_r"
	pG = "signal_g"
	pB = "signal_b"
	pA = "signal_a"
)

// RGBA packs color channels in the "r,g,b,a" form used by color signals.
// Channels are clamped to [0, 255] and rounded.
//
func RGBA(r, g, b, a float64) string {
	ch := func(x float64) string {
		if math.IsNaN(x) {
			x = 0
		}
		return strconv.Itoa(int(roundHalfUp(clamp(x, 0, 255))))
	}
	return ch(r) + "," + ch(g) + "," + ch(b) + "," + ch(a)
}

// HSV converts a hue in degrees and saturation and value in [0, 1] to RGB
// channels in [0, 255].
//
func HSV(h, s, v float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s, v = clamp(s, 0, 1), clamp(v, 0, 1)
	k := func(n float64) float64 {
		k := math.Mod(n+h/60, 6)
		return 255 * (v - v*s*math.Max(0, math.Min(k, math.Min(4-k, 1))))
	}
	return k(5), k(3), k(1)
}

func newColor() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:     "color",
		Inputs:   []string{pR, pG, pB, pA},
		Outputs:  []string{pOut},
		Defaults: sigsim.Settings{"mode": "rgb"},
		Process: func(c *sigsim.Component, _ *sigsim.Env) sigsim.Outputs {
			if !sigsim.Active(c.Input(pR)) && !sigsim.Active(c.Input(pG)) && !sigsim.Active(c.Input(pB)) {
				return nil
			}
			x, y, z := num(c.Input(pR), 0), num(c.Input(pG), 0), num(c.Input(pB), 0)
			a := num(c.Input(pA), 255)
			if strings.EqualFold(c.Settings.String("mode", "rgb"), "hsv") {
				x, y, z = HSV(x, y, z)
			}
			return sigsim.Outputs{pOut: RGBA(x, y, z, a)}
		},
	}
}

type queued struct {
	v  sigsim.Value
	at time.Time
}

type delayLine struct {
	queue []queued
	prev  sigsim.Value // previous input
	out   sigsim.Value // last released value
}

// delay is a FIFO buffer releasing signals delay seconds after they were
// received.
//
// Truthy signals are always buffered. Falsy signals are buffered only while
// the queue holds something and differ from the last queued value, so that
// the output falls back once the signal stops. With resetOnNewSignal, a signal
// arriving after no signal clears the queue. With resetOnDifferentSignal, a
// signal different from the previous one clears the queue.
func newDelay() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:    "delay",
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Defaults: sigsim.Settings{
			"delay":                  1.0,
			"resetOnNewSignal":       false,
			"resetOnDifferentSignal": false,
			"maxQueue":               float64(DefaultMaxQueue),
		},
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			p := sigsim.LocalState[perTick[delayLine]](c)
			d := p.begin(env.Tick)
			d.queue = append([]queued(nil), d.queue...)

			in := c.Input(pIn)
			s := c.Settings
			if sigsim.Active(in) {
				switch {
				case s.Bool("resetOnNewSignal", false) && !sigsim.Active(d.prev),
					s.Bool("resetOnDifferentSignal", false) && sigsim.Active(d.prev) && !sigsim.Equal(in, d.prev):
					d.queue = d.queue[:0]
				}
			}
			d.prev = in

			n := len(d.queue)
			if sigsim.Truthy(in) || n > 0 && !sigsim.Equal(in, d.queue[n-1].v) {
				if limit := s.Int("maxQueue", DefaultMaxQueue); limit > 0 && n >= limit {
					d.queue = d.queue[n-limit+1:]
				}
				d.queue = append(d.queue, queued{in, env.Now.Add(sigsim.Seconds(s.Float("delay", 1)))})
			}

			i := 0
			for ; i < len(d.queue) && !d.queue[i].at.After(env.Now); i++ {
				d.out = d.queue[i].v
			}
			d.queue = d.queue[i:]
			p.set(d)

			if !sigsim.Active(d.out) {
				return nil
			}
			return sigsim.Outputs{pOut: d.out}
		},
		Init:       func(c *sigsim.Component) { c.State.Local = nil },
		Invalidate: func(c *sigsim.Component) { c.State.Local = nil },
	}
}

// memory stores its input while writeable. An active lock_state input
// overrides the writeable setting: a truthy value allows writes.
//
// In "number" storage mode, non-numeric inputs are ignored. In "text" mode,
// values are stored as strings of at most maxValueLength characters.
func newMemory() *sigsim.PartSpec {
	return &sigsim.PartSpec{
		Type:    "memory",
		Inputs:  []string{pIn, "lock_state"},
		Outputs: []string{pOut},
		Defaults: sigsim.Settings{
			"writeable":      true,
			"maxValueLength": float64(defMaxOutputLength),
			"storageMode":    "text",
			"value":          "",
		},
		Process: func(c *sigsim.Component, env *sigsim.Env) sigsim.Outputs {
			// writes seen while the tick settles replace each other
			st := sigsim.LocalState[stored](c)
			if st.tick != env.Tick {
				st.tick = env.Tick
				st.base = c.State.CurrentOutput
			}
			v := st.base
			w := c.Settings.Bool("writeable", true)
			if l := c.Input("lock_state"); sigsim.Active(l) {
				w = sigsim.Truthy(l)
			}
			if in := c.Input(pIn); w && sigsim.Active(in) {
				if s, ok := store(c, in); ok {
					v = s
				}
			}
			c.State.CurrentOutput = v
			if !sigsim.Active(v) {
				return nil
			}
			return sigsim.Outputs{pOut: v}
		},
		Init: func(c *sigsim.Component) {
			c.State.Local = nil
			c.State.CurrentOutput = nil
			if v, ok := store(c, c.Settings.Value("value", "")); ok {
				c.State.CurrentOutput = v
			}
		},
	}
}

// stored is the value a memory held at the start of a tick.
type stored struct {
	tick uint64
	base sigsim.Value
}

// store converts v to the component's storage mode.
func store(c *sigsim.Component, v sigsim.Value) (sigsim.Value, bool) {
	if strings.EqualFold(c.Settings.String("storageMode", "text"), "number") {
		f, ok := sigsim.Number(v)
		return f, ok
	}
	return truncate(sigsim.String(v), c.Settings.Int("maxValueLength", defMaxOutputLength)), true
}

// signal returns the signal shaping parts.
//
//	concat: joins the string forms of signal_in1 and signal_in2 with separator
//	color:  packs signal_r, signal_g, signal_b and signal_a as "r,g,b,a"
//	        (h, s, v on the first three pins in hsv mode)
//	delay:  releases signal_in after delay seconds
//	memory: stores signal_in when writeable
//
func signal() []*sigsim.PartSpec {
	return []*sigsim.PartSpec{
		newConcat(),
		newColor(),
		newDelay(),
		newMemory(),
	}
}
