// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

// A PinRef identifies a pin on a component.
//
type PinRef struct {
	ID  string
	Pin string
}

func (p PinRef) String() string { return p.ID + "." + p.Pin }

// Aggregate resolves the values carried by all wires ending on the same input
// pin, given in wire evaluation order, into the single value seen by the
// receiving component: the first active value wins. If no value is active
// the result is nil.
//
//	Aggregate(nil, "", "5", "3") // "5"
//	Aggregate(0.0, "5")          // 0.0
//
func Aggregate(values ...Value) Value {
	for _, v := range values {
		if Active(v) {
			return v
		}
	}
	return nil
}

// fanIn groups wire values by destination pin, preserving the order in which
// destinations and values are first seen.
type fanIn struct {
	order  []PinRef
	values map[PinRef][]Value
}

func newFanIn(n int) *fanIn {
	return &fanIn{values: make(map[PinRef][]Value, n)}
}

func (f *fanIn) add(dst PinRef, v Value) {
	vs, ok := f.values[dst]
	if !ok {
		f.order = append(f.order, dst)
	}
	f.values[dst] = append(vs, v)
}

func (f *fanIn) reset() {
	f.order = f.order[:0]
	for k := range f.values {
		delete(f.values, k)
	}
}
