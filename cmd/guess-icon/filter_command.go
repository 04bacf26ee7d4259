package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"guessicon/internal/config"
	"guessicon/internal/guess"
	"guessicon/internal/hook"
	"guessicon/internal/logging"
	"guessicon/internal/module"
	"guessicon/internal/observe"
	"guessicon/internal/streamio"
)

const metricsShutdownTimeout = 5 * time.Second

func newFilterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Fill in icons for stream events read from stdin",
		Long: `Reads one JSON stream event per line from stdin, announces it on an
in-process core with the guess-icon module loaded, and writes the resulting
event to stdout. Runs until stdin is exhausted or the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			db, size, err := ctx.openDatabase(true)
			if err != nil {
				return err
			}
			defer db.Close()

			sigCtx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runFilter(sigCtx, filterOptions{
				cfg:    cfg,
				logger: logger,
				in:     cmd.InOrStdin(),
				out:    cmd.OutOrStdout(),
				newResolver: func(metrics *observe.Metrics) *guess.Resolver {
					return guess.NewResolver(nil,
						guess.WithLogger(logger),
						guess.WithMetrics(metrics),
						guess.WithSize(size),
					)
				},
			})
		},
	}
}

type filterOptions struct {
	cfg         *config.Config
	logger      *slog.Logger
	in          io.Reader
	out         io.Writer
	newResolver func(*observe.Metrics) *guess.Resolver
}

type filterStats struct {
	events   int
	resolved int
}

func runFilter(ctx context.Context, opts filterOptions) error {
	logger := logging.NewComponentLogger(opts.logger, "filter")

	metrics := observe.DefaultMetrics()
	var provider *observe.Provider
	if opts.cfg.Metrics.Listen != "" {
		var err error
		provider, err = observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: module.Version})
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Debug("metrics shutdown failed", logging.Error(err))
			}
		}()
		metrics = provider.Metrics
	}

	core := hook.NewCore(opts.logger)
	mod, err := module.Init(core, opts.newResolver(metrics), opts.logger)
	if err != nil {
		return err
	}
	defer mod.Done()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if provider != nil {
		listener, err := net.Listen("tcp", opts.cfg.Metrics.Listen)
		if err != nil {
			return fmt.Errorf("listen for metrics on %s: %w", opts.cfg.Metrics.Listen, err)
		}
		mux := http.NewServeMux()
		mux.Handle(opts.cfg.MetricsPath(), provider.Handler())
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		logger.Info("serving metrics",
			logging.String("address", listener.Addr().String()),
			logging.String("path", opts.cfg.MetricsPath()),
		)
		g.Go(func() error {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	pump := &eventPump{
		core:   core,
		reader: streamio.NewReader(opts.in),
		writer: streamio.NewWriter(opts.out),
	}
	interrupted := false
	g.Go(func() error {
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- pump.run()
		}()
		select {
		case err := <-done:
			return err
		case <-gctx.Done():
			// The reader may be blocked on stdin; leave it behind, but make
			// sure it never dispatches or writes again.
			interrupted = true
			return nil
		}
	})

	err = g.Wait()
	stats := pump.stop()
	if err != nil {
		return err
	}
	if interrupted {
		logger.Info("filter interrupted",
			logging.Int("events", stats.events),
			logging.Int("resolved", stats.resolved),
		)
		return nil
	}
	logger.Info("filter finished",
		logging.Int("events", stats.events),
		logging.Int("resolved", stats.resolved),
	)
	return nil
}

// eventPump moves events from reader through the core to writer until the
// input ends or stop is called.
type eventPump struct {
	core   *hook.Core
	reader *streamio.Reader
	writer *streamio.Writer

	mu      sync.Mutex
	stopped bool
	stats   filterStats
}

func (p *eventPump) run() error {
	for {
		stream, err := p.reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		ok, err := p.dispatch(stream)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// dispatch fires and writes one stream. It reports false once stopped.
func (p *eventPump) dispatch(stream *hook.Stream) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false, nil
	}
	hadIcon := guess.HasIcon(stream.Props)
	p.core.Put(stream)
	p.stats.events++
	if !hadIcon && guess.HasIcon(stream.Props) {
		p.stats.resolved++
	}
	return true, p.writer.Write(stream)
}

// stop prevents further dispatches and returns the counts so far. Once it
// returns, the pump no longer touches the core or the output.
func (p *eventPump) stop() filterStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	return p.stats
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
