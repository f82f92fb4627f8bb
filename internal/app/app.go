// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package app implements the sigsim command line.
//
package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

const usage = `usage: sigsim <command> [flags] [args]

commands:
  run     run a board headless, serving metrics and snapshots
  watch   run a board in a terminal view
  check   validate a board and print its wire paths
  encode  print the share code of a board file
  decode  write the board encoded in a share code
  parts   list the available part types
`

type command func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"run":    runCmd,
	"watch":  watchCmd,
	"check":  checkCmd,
	"encode": encodeCmd,
	"decode": decodeCmd,
	"parts":  partsCmd,
}

// errUsage reports bad command line arguments.
var errUsage = errors.New("bad usage")

// Run runs the command line args and returns the process exit code.
//
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
	err := cmd(ctx, args[1:], stdout, stderr)
	switch {
	case err == nil:
		return 0
	case errors.Cause(err) == flag.ErrHelp:
		return 0
	case errors.Cause(err) == errUsage:
		fmt.Fprintln(stderr, err)
		return 2
	}
	fmt.Fprintln(stderr, "sigsim:", err)
	return 1
}

func flags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse parses args and checks the number of positional arguments.
func parse(fs *flag.FlagSet, args []string, n int, operands string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != n {
		return errors.Wrapf(errUsage, "usage: sigsim %s [flags] %s", fs.Name(), operands)
	}
	return nil
}

func table(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}
