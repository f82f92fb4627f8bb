// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Value is a signal value as carried by wires and seen on pins.
//
// In practice a Value is one of nil (no signal), float64, string, bool or a
// structured value (map[string]any, []any). Integer kinds are accepted
// wherever a number is expected.
//
type Value = any

// Circular is the placeholder used when a structured value refers to itself.
//
const Circular = "[Circular]"

// Active reports whether v is a live signal: anything but nil and the empty
// string. Zero, false and NaN are active.
//
func Active(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	}
	return true
}

// Truthy reports whether v counts as a logical one.
//
// nil, false, numeric zero, NaN, the empty string and zero-like strings
// ("0", "0.0", "false") are false. Anything else is true.
//
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "false") {
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0 && !math.IsNaN(f)
		}
		return true
	}
	if f, ok := numeric(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Number converts v to a float64. Booleans convert to 0 or 1 and strings are
// parsed after trimming spaces. ok is false for nil, empty or non-numeric
// strings and structured values.
//
func Number(v Value) (f float64, ok bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return numeric(v)
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// numeric handles Go numeric kinds only.
func numeric(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// IsNumber reports whether v holds a Go numeric kind (not a numeric string).
//
func IsNumber(v Value) bool {
	_, ok := numeric(v)
	return ok
}

// String returns the string form of v. nil is the empty string, numbers use
// the shortest representation without exponent, structured values are
// serialized as JSON with self references replaced by Circular.
//
func String(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := numeric(v); ok {
		return FormatNumber(f)
	}
	b, err := json.Marshal(acyclic(v, make(map[uintptr]bool)))
	if err != nil {
		return Circular
	}
	return string(b)
}

// FormatNumber formats f the way signals are displayed.
//
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// acyclic returns a copy of v where references to a container currently being
// walked are replaced by Circular, and non-finite floats by their string form.
func acyclic(v Value, stack map[uintptr]bool) Value {
	switch x := v.(type) {
	case map[string]any:
		p := reflect.ValueOf(x).Pointer()
		if stack[p] {
			return Circular
		}
		stack[p] = true
		defer delete(stack, p)
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = acyclic(e, stack)
		}
		return out
	case []any:
		if len(x) == 0 {
			return x
		}
		p := reflect.ValueOf(x).Pointer()
		if stack[p] {
			return Circular
		}
		stack[p] = true
		defer delete(stack, p)
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = acyclic(e, stack)
		}
		return out
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return FormatNumber(x)
		}
	}
	return v
}

// Equal reports whether a and b are the same signal. Numbers compare by value
// with NaN equal to itself; a number never equals a string.
//
func Equal(a, b Value) bool {
	fa, aok := numeric(a)
	fb, bok := numeric(b)
	if aok || bok {
		if aok != bok {
			return false
		}
		return fa == fb || math.IsNaN(fa) && math.IsNaN(fb)
	}
	switch a.(type) {
	case nil, string, bool:
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
