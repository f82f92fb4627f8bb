// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import "math"

// Level is the state of a hysteresis Latch.
//
type Level uint8

// Latch levels.
//
const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Latch is a two state hysteresis latch.
//
// While Low, it switches to High once the signal reaches threshold+band.
// While High, it switches back to Low once the signal drops to threshold-band.
// Between the two bounds it holds its state.
//
type Latch struct {
	Level Level

	tick uint64 // tick of the last Eval
	base Level  // level at the end of the previous tick
}

// Update feeds x to the latch and reports whether it is High afterwards.
// A NaN signal never changes the state.
//
func (l *Latch) Update(x, threshold, band float64) bool {
	band = math.Abs(band)
	switch l.Level {
	case Low:
		if x >= threshold+band {
			l.Level = High
		}
	case High:
		if x <= threshold-band {
			l.Level = Low
		}
	}
	return l.Level == High
}

// Eval is Update for processors evaluated several times within a tick. Every
// call for a given tick starts from the level the latch had at the end of the
// previous tick, so that values seen only while the tick settles do not stick.
//
func (l *Latch) Eval(tick uint64, x, threshold, band float64) bool {
	if l.tick != tick {
		l.tick = tick
		l.base = l.Level
	}
	l.Level = l.base
	return l.Update(x, threshold, band)
}

// High reports whether the latch is High.
//
func (l Latch) High() bool { return l.Level == High }
