package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/goDoomsday/internal/config"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/LeJamon/goDoomsday/internal/di"
	"github.com/spf13/cobra"
)

var (
	// ErrNoKey is returned when an operation is submitted without a signing key.
	ErrNoKey = errors.New("no signing key: pass --key or set key_file")

	// ErrNotApplied is returned when a submitted operation did not succeed.
	ErrNotApplied = errors.New("operation not applied")
)

// app is the per-invocation service graph.
type app struct {
	cfg       *config.Config
	container *di.Container
	provider  *di.Provider
	logger    *slog.Logger
	clock     tx.Clock
	keyFile   string
	out       io.Writer

	stopMetrics context.CancelFunc
	metricsDone chan error
}

// newApp loads the configuration and wires the container for cmd.
func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	paths := config.DefaultConfigPaths()
	if opts.configFile != "" {
		paths.Main = opts.configFile
	}
	if opts.envFile != "" {
		paths.Env = opts.envFile
	}
	cfg, err := config.LoadConfig(paths)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	switch {
	case opts.debug || opts.verbose:
		logCfg.Level = "debug"
	case opts.quiet:
		logCfg.Level = "error"
	}
	logger := logCfg.NewLogger(cmd.ErrOrStderr())

	var clock tx.Clock = tx.SystemClock{}
	if opts.now != "" {
		at, err := parseTime(opts.now, time.Now())
		if err != nil {
			return nil, fmt.Errorf("--now: %w", err)
		}
		clock = tx.FixedClock(at)
	}

	c := di.New()
	c.Register(di.ServiceLogger, logger)
	c.Register(di.ServiceClock, clock)
	p := di.NewProvider(c, cfg)
	if err := p.RegisterAll(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		container: c,
		provider:  p,
		logger:    logger,
		clock:     clock,
		keyFile:   cfg.KeyFile,
		out:       cmd.OutOrStdout(),
	}
	if opts.keyFile != "" {
		a.keyFile = opts.keyFile
	}

	addr := cfg.Metrics.Addr
	if opts.metricsAddr != "" {
		addr = opts.metricsAddr
	}
	if addr != "" {
		if err := a.serveMetrics(cmd.Context(), addr); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) serveMetrics(parent context.Context, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	metrics, err := a.provider.GetMetrics()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(parent)
	a.stopMetrics = cancel
	a.metricsDone = make(chan error, 1)
	go func() {
		a.metricsDone <- metrics.Serve(ctx, addr, a.logger)
	}()
	return nil
}

// Close stops the metrics server and closes storage.
func (a *app) Close() error {
	var errs []error
	if a.stopMetrics != nil {
		a.stopMetrics()
		if err := <-a.metricsDone; err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, a.container.Close())
	return errors.Join(errs...)
}

// withApp runs fn with a wired app and closes it afterwards.
func withApp(opts *options, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, a)
	}
}

func (a *app) store() (*state.Store, error) {
	return a.provider.GetStateStore()
}

// key loads the operator key from the configured key file.
func (a *app) key() (*crypto.KeyPair, error) {
	if a.keyFile == "" {
		return nil, ErrNoKey
	}
	data, err := os.ReadFile(a.keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	k, err := crypto.ParsePrivateKey(strings.TrimSpace(string(data)))
	crypto.SecureErase(data)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", a.keyFile, err)
	}
	return k, nil
}

// submit signs op with the operator key, applies it and prints the result.
func (a *app) submit(op tx.Operation) (tx.ApplyResult, error) {
	k, err := a.key()
	if err != nil {
		return tx.ApplyResult{}, err
	}
	defer k.Zero()

	pub, sig, err := crypto.SignOperation(k, op)
	if err != nil {
		return tx.ApplyResult{}, err
	}
	engine, err := a.provider.GetEngine()
	if err != nil {
		return tx.ApplyResult{}, err
	}
	res := engine.Submit(op, pub, sig)
	a.printResult(op, res)
	if res.Result != tx.TesSUCCESS {
		return res, fmt.Errorf("%w: %s", ErrNotApplied, res.Result)
	}
	return res, nil
}

func (a *app) printResult(op tx.Operation, res tx.ApplyResult) {
	fmt.Fprintf(a.out, "%s seq=%d result=%s\n", op.OpType(), res.Seq, res.Result)
	if res.Message != "" && res.Result != tx.TesSUCCESS {
		fmt.Fprintf(a.out, "  %s\n", res.Message)
	}
	for _, ev := range res.Events {
		fmt.Fprintf(a.out, "  %-8s %-10s %d\n", ev.Kind, ev.Label, ev.Amount)
	}
}

// parseTime accepts unix seconds, RFC 3339, or a duration relative to now
// such as "+2h".
func parseTime(s string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(s, "+") {
		d, err := time.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseUint parses a positional amount or id argument.
func parseUint(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}
