// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/sigsim"
	"github.com/db47h/sigsim/board"
	"github.com/db47h/sigsim/internal/config"
	"github.com/db47h/sigsim/internal/logging"
	"github.com/db47h/sigsim/internal/metrics"
	"github.com/db47h/sigsim/internal/stream"
	"github.com/db47h/sigsim/internal/watch"
	"github.com/db47h/sigsim/parts"
	"github.com/pkg/errors"
)

// session is a board loaded and ready to run.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	doc     *board.Document
	sim     *sigsim.Simulation
	metrics *metrics.Registry
}

func load(cfg *config.Config, path string, log *slog.Logger) (*session, error) {
	doc, err := board.LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := parts.Registry()
	c, err := doc.Build(reg)
	if err != nil {
		return nil, err
	}
	m := metrics.NewRegistry()
	opts := append(cfg.SimOptions(), sigsim.WithLogger(log), sigsim.WithObserver(m))
	return &session{cfg: cfg, log: log, doc: doc, sim: sigsim.New(c, reg, opts...), metrics: m}, nil
}

func configFlags(fs *flag.FlagSet) (path *string, period *time.Duration) {
	path = fs.String("config", "", "YAML configuration `file`")
	period = fs.Duration("period", 0, "tick `period`, overrides the configuration")
	return path, period
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig(path string, period time.Duration) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if period != 0 {
		cfg.TickPeriod = period
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *session) clock() *sigsim.Clock {
	return sigsim.NewClock(s.sim, sigsim.WithPeriod(s.cfg.TickPeriod))
}

// press presses or releases a button. It must run with the clock lock held.
func press(s *sigsim.Simulation, id string, pressed bool, log *slog.Logger) {
	c := s.Circuit().Component(id)
	if c == nil || c.Type != "button" {
		log.Warn("press: no such button", "component", id)
		return
	}
	parts.Press(c, pressed)
}

func runCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("run", stderr)
	cfgPath, period := configFlags(fs)
	ticks := fs.Int("ticks", 0, "run `n` ticks, print the display values and exit")
	if err := parse(fs, args, 1, "board"); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, *period)
	if err != nil {
		return err
	}
	log, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	s, err := load(cfg, fs.Arg(0), log)
	if err != nil {
		return err
	}

	if *ticks > 0 {
		var st sigsim.TickStats
		for i := 0; i < *ticks; i++ {
			st = s.sim.Tick()
		}
		return printSnapshot(stdout, stream.Capture(s.sim, st))
	}

	k := s.clock()
	var srvs []*http.Server
	if addr := s.cfg.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		srvs = append(srvs, serve(addr, mux, s.log))
	}
	if addr := s.cfg.StreamAddr; addr != "" {
		hub := stream.NewHub(s.log, func(cmd stream.Command) {
			if cmd.Type != "press" {
				s.log.Warn("unknown stream command", "type", cmd.Type)
				return
			}
			k.Do(func(sim *sigsim.Simulation) { press(sim, cmd.ID, cmd.Pressed, s.log) })
		})
		go hub.Run(ctx)
		k.OnTick(func(sim *sigsim.Simulation, st sigsim.TickStats) { hub.Broadcast(stream.Capture(sim, st)) })
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srvs = append(srvs, serve(addr, mux, s.log))
	}

	k.Start()
	<-ctx.Done()
	k.Stop()

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range srvs {
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Error("server shutdown", "addr", srv.Addr, "err", err)
		}
	}
	return nil
}

func serve(addr string, h http.Handler, log *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "addr", addr, "err", err)
		}
	}()
	return srv
}

func printSnapshot(w io.Writer, snap *stream.Snapshot) error {
	rows := [][]string{{"ID", "TYPE", "DISPLAY"}}
	for _, c := range snap.Components {
		rows = append(rows, []string{c.ID, c.Type, display(c.Display)})
	}
	if err := table(w, rows); err != nil {
		return err
	}
	state := "stable"
	if !snap.Stable {
		state = "unstable"
	}
	_, err := fmt.Fprintf(w, "tick %d: %d iterations, %s\n", snap.Tick, snap.Iterations, state)
	return err
}

func display(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return sigsim.String(v)
}

// controller drives a clock from the terminal view.
type controller struct {
	k   *sigsim.Clock
	log *slog.Logger
}

func (c controller) Press(id string, pressed bool) {
	c.k.Do(func(s *sigsim.Simulation) { press(s, id, pressed, c.log) })
}

func (c controller) Pause() bool {
	if c.k.Running() {
		c.k.Stop()
		return false
	}
	c.k.Start()
	return true
}

func (c controller) Reset() { c.k.Reset() }

func watchCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("watch", stderr)
	cfgPath, period := configFlags(fs)
	if err := parse(fs, args, 1, "board"); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, *period)
	if err != nil {
		return err
	}
	// the terminal is owned by the view
	s, err := load(cfg, fs.Arg(0), logging.Discard())
	if err != nil {
		return err
	}
	k := s.clock()
	snaps := make(chan *stream.Snapshot, 1)
	k.OnTick(func(sim *sigsim.Simulation, st sigsim.TickStats) {
		select {
		case snaps <- stream.Capture(sim, st):
		default:
		}
	})
	k.Start()
	defer k.Stop()

	m := watch.New(fs.Arg(0), snaps, controller{k, s.log}, true)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(stdout), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		// interrupted
		return nil
	}
	return errors.Wrap(err, "terminal view")
}

func checkCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("check", stderr)
	if err := parse(fs, args, 1, "board"); err != nil {
		return err
	}
	doc, err := board.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	reg := parts.Registry()
	if _, err = doc.Build(reg); err != nil {
		return err
	}
	var unknown []string
	for _, c := range doc.Components {
		if _, ok := reg.Lookup(c.Type); !ok {
			unknown = append(unknown, c.ID+" ("+c.Type+")")
		}
	}
	fmt.Fprintf(stdout, "%s: %d components, %d wires\n", fs.Arg(0), len(doc.Components), len(doc.Wires))
	if len(unknown) > 0 {
		fmt.Fprintf(stdout, "unknown types: %s\n", strings.Join(unknown, ", "))
	}
	rows := [][]string{{"WIRE", "FROM", "TO"}}
	for _, p := range doc.WirePaths(board.EdgeGeometry{Registry: reg}) {
		rows = append(rows, []string{p.Wire, point(p.From), point(p.To)})
	}
	return table(stdout, rows)
}

func point(p board.Point) string {
	return "(" + sigsim.FormatNumber(p.X) + "," + sigsim.FormatNumber(p.Y) + ")"
}

func encodeCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("encode", stderr)
	if err := parse(fs, args, 1, "board"); err != nil {
		return err
	}
	doc, err := board.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	code, err := board.EncodeShare(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, code)
	return err
}

func decodeCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("decode", stderr)
	out := fs.String("o", "", "write the board to `file` (.json, .yaml or .yml) instead of stdout")
	if err := parse(fs, args, 1, "code"); err != nil {
		return err
	}
	doc, err := board.DecodeShare(fs.Arg(0))
	if err != nil {
		return err
	}
	if *out != "" {
		return board.SaveFile(*out, doc)
	}
	data, err := board.Marshal(doc, board.JSON)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func partsCmd(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("parts", stderr)
	if err := parse(fs, args, 0, ""); err != nil {
		return err
	}
	reg := parts.Registry()
	rows := [][]string{{"TYPE", "INPUTS", "OUTPUTS", "SETTINGS"}}
	for _, t := range reg.Types() {
		p, _ := reg.Lookup(t)
		rows = append(rows, []string{t, list(p.Inputs), list(p.Outputs), strconv.Itoa(len(p.Defaults))})
	}
	return table(stdout, rows)
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
