// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/db47h/sigsim"
	"github.com/db47h/sigsim/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBoard saves a board where two constants feed an adder and a display.
func writeBoard(t *testing.T, name string) string {
	t.Helper()
	d := board.New()
	d.Components = []board.Component{
		{ID: "component-1", Type: "constant", Settings: sigsim.Settings{"value": 2.0}, Width: 40, Height: 30},
		{ID: "component-2", Type: "constant", Settings: sigsim.Settings{"value": 3.0}, Y: 40, Width: 40, Height: 30},
		{ID: "component-3", Type: "add", X: 100, Width: 40, Height: 40},
		{ID: "component-4", Type: "display", X: 200, Width: 40, Height: 30},
	}
	d.Wires = []board.Wire{
		{ID: "wire-1", From: "component-1", FromPin: "signal_out", To: "component-3", ToPin: "signal_in1"},
		{ID: "wire-2", From: "component-2", FromPin: "signal_out", To: "component-3", ToPin: "signal_in2"},
		{ID: "wire-3", From: "component-3", FromPin: "signal_out", To: "component-4", ToPin: "signal_in"},
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, board.SaveFile(path, d))
	return path
}

func run(args ...string) (code int, stdout, stderr string) {
	var o, e bytes.Buffer
	code = Run(context.Background(), args, &o, &e)
	return code, o.String(), e.String()
}

func TestRunTicks(t *testing.T) {
	path := writeBoard(t, "sum.yaml")
	code, out, errs := run("run", "-ticks", "2", path)
	require.Equal(t, 0, code, errs)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"component-4", "display", "5"}, strings.Fields(lines[4]))
	assert.True(t, strings.HasPrefix(lines[5], "tick 2: "), lines[5])
	assert.True(t, strings.HasSuffix(lines[5], " iterations, stable"), lines[5])
}

func TestCheck(t *testing.T) {
	path := writeBoard(t, "sum.json")
	code, out, errs := run("check", path)
	require.Equal(t, 0, code, errs)
	assert.Contains(t, out, "4 components, 3 wires")
	assert.NotContains(t, out, "unknown types")
	assert.Contains(t, out, "wire-1")
	assert.Contains(t, out, "(40,15)")
}

func TestShareCode(t *testing.T) {
	path := writeBoard(t, "sum.json")
	code, out, errs := run("encode", path)
	require.Equal(t, 0, code, errs)
	sc := strings.TrimSpace(out)

	dst := filepath.Join(t.TempDir(), "copy.yaml")
	code, _, errs = run("decode", "-o", dst, sc)
	require.Equal(t, 0, code, errs)
	d, err := board.LoadFile(dst)
	require.NoError(t, err)
	assert.Len(t, d.Components, 4)

	code, out, _ = run("decode", sc)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"fromPin": "signal_out"`)

	code, _, errs = run("decode", "!!")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "share code")
}

func TestParts(t *testing.T) {
	code, out, _ := run("parts")
	require.Equal(t, 0, code)
	for _, typ := range []string{"add", "button", "delay", "light", "memory"} {
		assert.Contains(t, out, typ)
	}
}

func TestUsage(t *testing.T) {
	code, out, _ := run()
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "commands:")

	code, _, errs := run("frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errs, "unknown command")

	code, _, errs = run("run")
	assert.Equal(t, 2, code)
	assert.Contains(t, errs, "usage: sigsim run")

	code, _, _ = run("run", "-bogus", "x")
	assert.Equal(t, 1, code)

	code, _, errs = run("run", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "load document")
}

func TestPeriodFlag(t *testing.T) {
	cfg, err := loadConfig("", 250*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.TickPeriod)

	_, err = loadConfig("", time.Hour)
	assert.Error(t, err)

	code, _, errs := run("run", "-period", "1ns", "-ticks", "1", writeBoard(t, "b.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "TickPeriod")
}
