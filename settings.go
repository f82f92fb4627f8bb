// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sigsim

import (
	"math"
	"strings"
)

// Settings holds the per-type configuration of a component.
//
// Accessors never fail: a missing key, a nil or empty value, or a value of the
// wrong type yields the supplied default.
//
type Settings map[string]any

// Has reports whether key is set to an active value.
//
func (s Settings) Has(key string) bool {
	return Active(s[key])
}

// Value returns the raw value for key, or def if the key is missing or nil.
// The empty string is returned as is.
//
func (s Settings) Value(key string, def Value) Value {
	v, ok := s[key]
	if !ok || v == nil {
		return def
	}
	return v
}

// Float returns the numeric value for key.
//
func (s Settings) Float(key string, def float64) float64 {
	if f, ok := Number(s[key]); ok && !math.IsNaN(f) {
		return f
	}
	return def
}

// Int returns the numeric value for key truncated to an int.
//
func (s Settings) Int(key string, def int) int {
	f, ok := Number(s[key])
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return int(f)
}

// String returns the string value for key. Non-string values are converted
// with String.
//
func (s Settings) String(key string, def string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return def
	}
	return String(v)
}

// Bool returns the boolean value for key. Strings "true"/"false" and numbers
// are accepted.
//
func (s Settings) Bool(key string, def bool) bool {
	switch x := s[key].(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
		return def
	case nil:
		return def
	}
	if f, ok := numeric(s[key]); ok {
		return f != 0
	}
	return def
}

// Clone returns a shallow copy of s. The copy of a nil Settings is an empty,
// non-nil map.
//
func (s Settings) Clone() Settings {
	t := make(Settings, len(s))
	for k, v := range s {
		t[k] = v
	}
	return t
}
