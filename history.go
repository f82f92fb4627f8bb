// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"math"
	"time"
)

// DefaultHistoryCap is the maximum number of samples a History retains
// regardless of its time window.
//
const DefaultHistoryCap = 1024

// A Sample is a time stamped signal value.
//
type Sample struct {
	Value float64
	Time  time.Time
}

// History is a time ordered list of recent output samples used to smooth a
// component's output over a time window.
//
type History struct {
	samples []Sample
}

// Average records v at time now, evicts samples older than window and returns
// the arithmetic mean of the remaining samples, v included.
//
// A sample recorded at the exact same instant as now is replaced rather than
// appended, so that repeated evaluations within a tick count once. At most
// limit samples are kept (DefaultHistoryCap if limit <= 0), oldest first out.
//
func (h *History) Average(v float64, now time.Time, window time.Duration, limit int) float64 {
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	if n := len(h.samples); n > 0 && h.samples[n-1].Time.Equal(now) {
		h.samples[n-1].Value = v
	} else {
		h.samples = append(h.samples, Sample{v, now})
	}

	cut := now.Add(-window)
	i := 0
	for i < len(h.samples) && h.samples[i].Time.Before(cut) {
		i++
	}
	if over := len(h.samples) - i - limit; over > 0 {
		i += over
	}
	if i > 0 {
		h.samples = append(h.samples[:0], h.samples[i:]...)
	}

	sum := 0.0
	for _, s := range h.samples {
		sum += s.Value
	}
	return sum / float64(len(h.samples))
}

// Len returns the number of retained samples.
//
func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy of the retained samples, oldest first.
//
func (h *History) Samples() []Sample {
	return append([]Sample(nil), h.samples...)
}

// Clear drops all samples.
//
func (h *History) Clear() { h.samples = h.samples[:0] }

// Seconds converts a duration expressed in (possibly fractional) seconds.
//
func Seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	if s >= float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(math.Round(s * float64(time.Second)))
}
